package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/curriculum"
)

const progressBarWidth = 24

// FormatView renders the current view: position, progress, required and
// optional items, then the carry-over section.
func FormatView(v *app.CurrentView) string {
	var b strings.Builder

	b.WriteString(Header(v.PhaseLabel))
	b.WriteString("\n")
	if v.Position.Day > 0 {
		b.WriteString(Dim(fmt.Sprintf("Day %d", v.Position.Day)) + "  ")
	}
	b.WriteString(RenderProgress(v.ProgressFraction, progressBarWidth))
	b.WriteString("\n\n")

	if len(v.Warnings) > 0 {
		for _, w := range v.Warnings {
			b.WriteString(StyleYellow.Render("! "+w) + "\n")
		}
		b.WriteString("\n")
	}

	writeItemSection(&b, "Required", v.RequiredItems)
	writeItemSection(&b, "Optional", v.OptionalItems)

	if len(v.CarryOverItems) > 0 {
		writeItemSection(&b, "Carry-over", v.CarryOverItems)
	} else if v.AllCaughtUp {
		b.WriteString(StyleGreen.Render("✔ All caught up") + Dim(" on earlier periods") + "\n\n")
	}

	if n := len(v.Diagnostics); n > 0 {
		b.WriteString(Dim(fmt.Sprintf("%s in the curriculum configuration", Plural(n, "diagnostic"))) + "\n")
	}
	return b.String()
}

func writeItemSection(b *strings.Builder, title string, items []app.ItemView) {
	if len(items) == 0 {
		return
	}
	b.WriteString(StyleBold.Render(title) + Dim(fmt.Sprintf(" (%d)", len(items))) + "\n")
	for _, item := range items {
		b.WriteString("  " + ItemLine(item) + "\n")
	}
	b.WriteString("\n")
}

// ItemLine renders one item as "[x] label  category  detail  id".
func ItemLine(item app.ItemView) string {
	label := StatusStyle(item.Status).Render(item.Label)
	if item.Status == curriculum.StatusComplete {
		label = Dim(item.Label)
	}
	parts := []string{StatusMark(item.Status), label, CategoryBadge(item.Category)}
	if d := itemDetail(item); d != "" {
		parts = append(parts, Dim(d))
	}
	parts = append(parts, TruncID(item.ID))
	return strings.Join(parts, "  ")
}

func itemDetail(item app.ItemView) string {
	var details []string
	if item.FromPeriod != "" {
		details = append(details, "from "+item.FromPeriod)
	}
	if item.Session != curriculum.SessionNone {
		details = append(details, string(item.Session))
	} else if item.Status != curriculum.StatusComplete && item.Reason != "" && !item.Toggleable {
		details = append(details, string(item.Reason))
	}
	if item.DurationMinutes > 0 {
		details = append(details, FormatMinutes(item.DurationMinutes))
	}
	return strings.Join(details, ", ")
}
