package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newEnrollCmd(a *App, flags *globalFlags) *cobra.Command {
	var start, ascent string

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll a user, or show the enrollment when --start is omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			if start == "" {
				e, err := a.Enrollments.Get(cmd.Context(), userID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEnrollment(e))
				return nil
			}

			startDate, err := parseDate("--start", start)
			if err != nil {
				return err
			}
			var ascentStart *time.Time
			if ascent != "" {
				t, err := parseDate("--ascent-start", ascent)
				if err != nil {
					return err
				}
				ascentStart = &t
			}

			e, err := a.Enrollments.Enroll(cmd.Context(), userID, startDate, ascentStart)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEnrollment(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Program start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ascent, "ascent-start", "", "Ascent start date override (YYYY-MM-DD)")
	return cmd
}

func parseDate(flag, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD, got %q", flag, s)
	}
	return t, nil
}

func newFormCmd(a *App, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Inspect or record interactive form submissions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show which forms the user has submitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			forms, err := a.Enrollments.FormStatus(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatForms(forms))
			return nil
		},
	})

	var unsubmit bool
	set := &cobra.Command{
		Use:       "set <form>",
		Short:     "Mark a form as submitted",
		Args:      cobra.ExactArgs(1),
		ValidArgs: formKindArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			kind := domain.FormKind(args[0])
			if err := a.Enrollments.SetFormStatus(cmd.Context(), userID, kind, !unsubmit); err != nil {
				return err
			}
			state := "submitted"
			if unsubmit {
				state = "not submitted"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", formatter.StyleGreen.Render("✔"), kind, formatter.Dim(state))
			return nil
		},
	}
	set.Flags().BoolVar(&unsubmit, "unsubmit", false, "Mark the form as not submitted")
	cmd.AddCommand(set)

	return cmd
}

func formKindArgs() []string {
	out := make([]string, len(domain.FormKinds))
	for i, k := range domain.FormKinds {
		out[i] = string(k)
	}
	return out
}
