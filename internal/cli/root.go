package cli

import (
	"errors"
	"os"
	"time"

	"github.com/alexanderramin/waypoint/internal/config"
	"github.com/alexanderramin/waypoint/internal/logger"
	"github.com/alexanderramin/waypoint/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the services and runtime settings used by CLI commands.
type App struct {
	Progression   service.ProgressionService
	Registrations service.RegistrationService
	Facilitator   service.FacilitatorService
	Enrollments   service.EnrollmentService
	Curriculum    service.CurriculumService

	Config config.Config
	Logger *logger.Logger

	// IsInteractive reports whether stdin is a terminal. Prompts and the
	// board are only offered when it returns true.
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) log() *logger.Logger {
	if a.Logger == nil {
		return logger.Nop()
	}
	return a.Logger
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

const userEnv = "WAYPOINT_USER"

var errNoUser = errors.New("no user selected: pass --user or set " + userEnv)

// globalFlags are shared by every user-scoped command.
type globalFlags struct {
	userID    string
	sessionID string
}

func (g *globalFlags) register(fs *pflag.FlagSet, defaultSession string) {
	fs.StringVarP(&g.userID, "user", "u", os.Getenv(userEnv), "User the command acts for")
	fs.StringVar(&g.sessionID, "session", defaultSession, "View session used to remember carry-over items")
}

func (g *globalFlags) user() (string, error) {
	if g.userID == "" {
		return "", errNoUser
	}
	return g.userID, nil
}

// NewRootCmd creates the top-level "waypoint" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "waypoint",
		Short:         "Leadership curriculum progression engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := &globalFlags{}
	flags.register(root.PersistentFlags(), app.Config.Session())

	root.AddCommand(
		newViewCmd(app, flags),
		newStatsCmd(app, flags),
		newToggleCmd(app, flags),
		newSkipCmd(app, flags),
		newAckCmd(app, flags),
		newSessionCmd(app, flags),
		newEnrollCmd(app, flags),
		newFormCmd(app, flags),
		newCurriculumCmd(app),
		newFacilitatorCmd(app),
		newBoardCmd(app, flags),
		newServeCmd(app),
	)

	return root
}
