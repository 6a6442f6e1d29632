package cli

import (
	"fmt"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSessionCmd(a *App, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Schedule, cancel and confirm coaching or community sessions",
	}

	cmd.AddCommand(
		newSessionScheduleCmd(a, flags),
		newSessionListCmd(a, flags),
		newSessionCancelCmd(a, flags),
		newSessionAttendCmd(a, flags),
	)

	return cmd
}

func newSessionScheduleCmd(a *App, flags *globalFlags) *cobra.Command {
	var req app.ScheduleRequest

	cmd := &cobra.Command{
		Use:   "schedule <item-id>",
		Short: "Book a session for a session item, replacing any other booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			req.UserID = userID
			req.ItemID = args[0]

			res, err := a.Registrations.ScheduleSession(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMutation("schedule", res))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.SessionID, "session-id", "", "External session instance ID (required)")
	cmd.Flags().StringVar(&req.SessionTitle, "title", "", "Session title (defaults to the item label)")
	cmd.Flags().StringVar(&req.CoachName, "coach", "", "Coach or host name")
	cmd.Flags().StringVar(&req.StartsAt, "starts-at", "", "Start time (RFC3339)")
	_ = cmd.MarkFlagRequired("session-id")

	return cmd
}

func newSessionListCmd(a *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List session registrations, cancelled ones included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			regs, err := a.Registrations.ListRegistrations(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRegistrations(regs, a.now()))
			return nil
		},
	}
}

func newSessionCancelCmd(a *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <registration-id>",
		Short: "Cancel a registered session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			res, err := a.Registrations.CancelSession(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMutation("cancel", res))
			return nil
		},
	}
}

func newSessionAttendCmd(a *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "attend <registration-id>",
		Short: "Confirm attendance of a registered session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			res, err := a.Registrations.ConfirmAttendance(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMutation("attend", res))
			return nil
		},
	}
}
