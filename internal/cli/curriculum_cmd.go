package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/spf13/cobra"
)

var errNoCurriculumFile = errors.New("no curriculum file: pass a path or set curriculum_file in the config")

func newCurriculumCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curriculum",
		Short: "Import and inspect the period configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "import [path]",
			Short: "Import a curriculum YAML file, replacing periods with the same IDs",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := a.Config.CurriculumFile
				if len(args) == 1 {
					path = args[0]
				}
				if path == "" {
					return errNoCurriculumFile
				}
				res, err := a.Curriculum.ImportCurriculum(cmd.Context(), path)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImport(res))
				return nil
			},
		},
		&cobra.Command{
			Use:   "periods",
			Short: "List configured periods",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				periods, err := a.Curriculum.ListPeriods(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPeriods(periods))
				return nil
			},
		},
		&cobra.Command{
			Use:   "preview",
			Short: "Show normalized items with their strategies and diagnostics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.Curriculum.Preview(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPreview(res))
				return nil
			},
		},
	)

	return cmd
}
