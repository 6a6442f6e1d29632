package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waypoint/internal/curriculum"
)

func FormatStats(s *curriculum.Stats) string {
	var b strings.Builder
	b.WriteString(Header("Progress stats") + "\n")
	rows := [][]string{
		{"Points", StyleYellowBold.Render(fmt.Sprintf("%d", s.Points))},
		{"Completed", fmt.Sprintf("%d", s.TotalCompleted)},
		{"Skipped", fmt.Sprintf("%d", s.TotalSkipped)},
		{"Carry-over completed", fmt.Sprintf("%d/%d", s.CarriedOverCompleted, s.TotalCarriedOver)},
		{"Streak", fmt.Sprintf("%d (best %d)", s.CurrentStreak, s.LongestStreak)},
		{"Perfect weeks", fmt.Sprintf("%d", s.PerfectWeeks)},
		{"Content / Community / Coaching", fmt.Sprintf("%d / %d / %d", s.ContentCompleted, s.CommunityCompleted, s.CoachingCompleted)},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-32s %s\n", r[0], r[1]))
	}

	b.WriteString("\n" + StyleBold.Render("Badges") + "\n")
	if len(s.Badges) == 0 {
		b.WriteString("  " + Dim("none yet") + "\n")
	}
	for _, badge := range s.Badges {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", StylePurple.Render("★"), badge.Name, Dim(badge.Description)))
	}
	return b.String()
}
