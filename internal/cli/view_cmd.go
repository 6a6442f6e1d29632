package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newViewCmd(a *App, flags *globalFlags) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the current phase, items and carry-over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			req := app.NewViewRequest(userID, flags.sessionID)
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				req.Now = &t
			}

			view, err := a.Progression.GetCurrentView(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatView(view))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Evaluate the view at this RFC3339 instant instead of now")
	return cmd
}

func newStatsCmd(a *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show points, streaks and badges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			stats, err := a.Progression.GetStats(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStats(stats))
			return nil
		},
	}
}
