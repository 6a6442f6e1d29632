package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var errResetNeedsConfirm = errors.New("refusing to reset without --yes outside an interactive terminal")

// confirmReset asks before wiping a user's progress. Tests replace it.
var confirmReset = func(userID string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Reset all progress for %s?", userID)).
			Description("Progress records, sign-offs and carry-over memos are deleted. Registrations are kept.").
			Affirmative("Reset").
			Negative("Cancel").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func newFacilitatorCmd(a *App) *cobra.Command {
	var actorID string

	cmd := &cobra.Command{
		Use:   "facilitator",
		Short: "Facilitator actions: sign-offs, certification and resets",
	}
	cmd.PersistentFlags().StringVar(&actorID, "as", "", "Facilitator ID performing the action (required)")
	_ = cmd.MarkPersistentFlagRequired("as")

	actor := func() domain.Actor { return domain.FacilitatorActor(actorID) }

	cmd.AddCommand(
		&cobra.Command{
			Use:   "signoff <user-id> <milestone>",
			Short: "Sign off a milestone for a user",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := parseMilestone(args[1])
				if err != nil {
					return err
				}
				res, err := a.Facilitator.SignOffMilestone(cmd.Context(), actor(), args[0], n)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMutation("sign-off", res))
				return nil
			},
		},
		&cobra.Command{
			Use:   "certify <registration-id>",
			Short: "Certify an attended coaching session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.Facilitator.CertifyRegistration(cmd.Context(), actor(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMutation("certify", res))
				return nil
			},
		},
		newResetCmd(a, actor),
	)

	return cmd
}

func newResetCmd(a *App, actor func() domain.Actor) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset <user-id>",
		Short: "Delete a user's progress, sign-offs and carry-over memos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			if !yes {
				if !a.interactive() {
					return errResetNeedsConfirm
				}
				ok, err := confirmReset(userID)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Reset cancelled."))
					return nil
				}
			}

			res, err := a.Facilitator.ResetUser(cmd.Context(), actor(), userID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMutation("reset", res))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
