package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newToggleCmd(a *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Complete an item, or undo its completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			res, err := a.Progression.ToggleItem(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMutation("toggle", res))
			return nil
		},
	}
}

func newSkipCmd(a *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "skip <item-id>",
		Short: "Skip an optional item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			res, err := a.Progression.SkipItem(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMutation("skip", res))
			return nil
		},
	}
}

func newAckCmd(a *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ack <milestone>",
		Short: "Acknowledge a milestone certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			n, err := parseMilestone(args[0])
			if err != nil {
				return err
			}
			res, err := a.Progression.AcknowledgeCertificate(cmd.Context(), userID, n)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMutation("acknowledge", res))
			return nil
		},
	}
}

func parseMilestone(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("milestone must be a number, got %q", s)
	}
	return n, nil
}
