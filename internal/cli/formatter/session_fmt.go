package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
)

// FormatRegistrations lists session registrations, cancelled ones included.
func FormatRegistrations(regs []domain.SessionRegistration, now time.Time) string {
	if len(regs) == 0 {
		return Dim("No session registrations.") + "\n"
	}
	rows := make([][]string, 0, len(regs))
	for _, r := range regs {
		when := Dim("unscheduled")
		if r.StartsAt != nil {
			when = RelativeDateFrom(*r.StartsAt, now)
		}
		coach := r.CoachName
		if coach == "" {
			coach = "--"
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			r.SessionTitle,
			milestoneLabel(r.Milestone),
			when,
			coach,
			RegistrationPill(r.Status),
		})
	}
	var b strings.Builder
	b.WriteString(Header("Sessions") + "\n")
	b.WriteString(RenderTable([]string{"ID", "SESSION", "MILESTONE", "WHEN", "COACH", "STATUS"}, rows))
	return b.String()
}

func milestoneLabel(n int) string {
	if n == 0 {
		return "--"
	}
	return fmt.Sprintf("M%d", n)
}
