package formatter

import (
	"fmt"

	"github.com/alexanderramin/waypoint/internal/app"
)

// FormatMutation renders the outcome of a toggle, skip, acknowledgement,
// scheduling or facilitator action.
func FormatMutation(verb string, res *app.MutationResult) string {
	if !res.Accepted {
		msg := res.Message
		if msg == "" {
			msg = string(res.Code)
		}
		return fmt.Sprintf("%s %s %s\n", StyleRed.Render("✖"), verb, Dim(fmt.Sprintf("rejected (%s): %s", res.Code, msg)))
	}
	if !res.Changed {
		return fmt.Sprintf("%s %s %s\n", StyleDim.Render("○"), verb, Dim("no change"))
	}

	line := fmt.Sprintf("%s %s", StyleGreen.Render("✔"), verb)
	switch {
	case res.Record != nil:
		line += "  " + Dim(string(res.Record.Status))
	case res.Registration != nil:
		line += "  " + RegistrationPill(res.Registration.Status) + "  " + TruncID(res.Registration.ID)
	case res.Milestone != nil:
		line += "  " + Dim(fmt.Sprintf("milestone %d", res.Milestone.Milestone))
	}
	if res.ItemID != "" {
		line += "  " + TruncID(res.ItemID)
	}
	return line + "\n"
}
