package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/domain"
)

func FormatImport(res *app.ImportResult) string {
	line := fmt.Sprintf("%s Imported %s with %s, %s and %s",
		StyleGreen.Render("✔"),
		Plural(res.PeriodCount, "period"),
		Plural(res.ItemCount, "item"),
		Plural(res.ResourceCount, "resource"),
		Plural(res.SessionTypeCount, "session type"),
	)
	if res.Diagnostics > 0 {
		line += "\n  " + StyleYellow.Render(Plural(res.Diagnostics, "diagnostic")) + Dim(" (run `waypoint curriculum preview`)")
	}
	return line + "\n"
}

// FormatPeriods renders configured periods as a tree grouped by phase.
func FormatPeriods(periods []domain.PeriodConfig) string {
	if len(periods) == 0 {
		return Dim("No curriculum imported.") + "\n"
	}
	var tree []TreeItem
	var phase domain.Phase
	for i := range periods {
		ref := periods[i].Ref()
		if i == 0 || !ref.Phase.Equal(phase) {
			phase = ref.Phase
			tree = append(tree, TreeItem{Title: StyleBold.Render(phase.Label())})
		}
		last := i == len(periods)-1 || !periods[i+1].Ref().Phase.Equal(phase)
		title := ref.Label()
		if periods[i].Title != "" {
			title += "  " + Dim(periods[i].Title)
		}
		tree = append(tree, TreeItem{
			Title:  title,
			Level:  1,
			IsLast: last,
			Detail: Plural(entryCount(&periods[i]), "entry"),
		})
	}
	return Header("Curriculum") + "\n" + RenderTree(tree)
}

func entryCount(p *domain.PeriodConfig) int {
	return len(p.Actions) + len(p.WeeklySlots) + len(p.SessionSlots) + len(p.FormSlots)
}

// FormatPreview renders the normalized items and any diagnostics.
func FormatPreview(res *curriculum.NormalizeResult) string {
	var b strings.Builder
	b.WriteString(Header("Normalized items") + "\n")
	rows := make([][]string, 0, len(res.Items))
	for _, item := range res.Items {
		req := Dim("optional")
		if item.Required {
			req = "required"
		}
		rows = append(rows, []string{
			item.ID,
			item.Label,
			item.Origin.Label(),
			string(item.Strategy) + Dim(" ("+string(item.StrategySource)+")"),
			req,
		})
	}
	b.WriteString(RenderTable([]string{"ID", "LABEL", "PERIOD", "STRATEGY", "REQUIRED"}, rows))

	if len(res.Diagnostics) > 0 {
		b.WriteString("\n" + StyleYellow.Render(Plural(len(res.Diagnostics), "diagnostic")) + "\n")
		for _, d := range res.Diagnostics {
			b.WriteString("  " + StyleYellow.Render("!") + " " + d.String() + "\n")
		}
	}
	return b.String()
}
