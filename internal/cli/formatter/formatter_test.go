package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderProgress_Clamps(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		want     string
	}{
		{"empty", 0, "[░░░░]   0%"},
		{"half", 0.5, "[██░░]  50%"},
		{"full", 1, "[████] 100%"},
		{"over", 1.7, "[████] 100%"},
		{"negative", -0.2, "[░░░░]   0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderProgress(tt.fraction, 4)))
		})
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"ID", "NAME"}, [][]string{{"a", "first"}, {"long-id", "x"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "ID       NAME", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "a        first", lines[2])
	assert.Equal(t, "long-id  x", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderTree_Connectors(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "Milestone 1"},
		{Title: "Day 1", Level: 1, Detail: "2 entries"},
		{Title: "Day 2", Level: 1, IsLast: true, Done: true},
	}))
	assert.Contains(t, out, "├─ Day 1")
	assert.Contains(t, out, "└─ ✔ Day 2")
	assert.Contains(t, out, "[ 2 entries ]")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", RelativeDateFrom(now.Add(2*time.Hour), now))
	assert.Equal(t, "Tomorrow", RelativeDateFrom(now.AddDate(0, 0, 1), now))
	assert.Equal(t, "Yesterday", RelativeDateFrom(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "In 5d", RelativeDateFrom(now.AddDate(0, 0, 5), now))
	assert.Equal(t, "In 3w", RelativeDateFrom(now.AddDate(0, 0, 21), now))
	assert.Equal(t, "3d ago", RelativeDateFrom(now.AddDate(0, 0, -3), now))
	assert.Equal(t, "4w ago", RelativeDateFrom(now.AddDate(0, 0, -28), now))
}

func TestFormatMinutesAndPlural(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "1h 5m", FormatMinutes(65))
	assert.Equal(t, "1 entry", Plural(1, "entry"))
	assert.Equal(t, "3 entries", Plural(3, "entry"))
	assert.Equal(t, "2 session types", Plural(2, "session type"))
}

func sampleView() *app.CurrentView {
	return &app.CurrentView{
		UserID:           "u1",
		PhaseLabel:       "Milestone 1: Foundation",
		Position:         curriculum.Position{Phase: domain.Milestone(1), Day: 12},
		ProgressFraction: 0.5,
		RequiredItems: []app.ItemView{
			{ID: "m1-watch", Label: "Watch the intro", Category: domain.CategoryContent, Status: curriculum.StatusComplete, Toggleable: true, DurationMinutes: 12},
			{ID: "m1-cert", Label: "Book your coaching call", Category: domain.CategoryCoaching, Status: curriculum.StatusBlocked, Session: curriculum.SessionAttended},
		},
		OptionalItems: []app.ItemView{
			{ID: "exp-1", Label: "Explore the library", Category: domain.CategoryContent, Status: curriculum.StatusPending, Toggleable: true},
		},
		CarryOverItems: []app.ItemView{
			{ID: "onb-5", Label: "Complete your leader profile", Category: domain.CategoryForm, Status: curriculum.StatusPending, Reason: curriculum.ReasonFormNotSubmitted, FromPeriod: "Pre-Start / onboarding"},
		},
		Diagnostics: []curriculum.Diagnostic{{Kind: curriculum.DiagKeywordInference}},
	}
}

func TestFormatView_Sections(t *testing.T) {
	out := stripANSI(FormatView(sampleView()))

	assert.Contains(t, out, "MILESTONE 1: FOUNDATION")
	assert.Contains(t, out, "Day 12")
	assert.Contains(t, out, " 50%")
	assert.Contains(t, out, "Required (2)")
	assert.Contains(t, out, "[x]  Watch the intro  content  12m  m1-watch")
	assert.Contains(t, out, "[~]  Book your coaching call  coaching  attended")
	assert.Contains(t, out, "Optional (1)")
	assert.Contains(t, out, "Carry-over (1)")
	assert.Contains(t, out, "from Pre-Start / onboarding, form not submitted")
	assert.Contains(t, out, "1 diagnostic in the curriculum configuration")
	assert.NotContains(t, out, "All caught up")
}

func TestFormatView_AllCaughtUpAndWarnings(t *testing.T) {
	v := sampleView()
	v.CarryOverItems = nil
	v.AllCaughtUp = true
	v.Warnings = []string{"form status unavailable"}

	out := stripANSI(FormatView(v))
	assert.Contains(t, out, "✔ All caught up on earlier periods")
	assert.Contains(t, out, "! form status unavailable")
}

func TestFormatMutation(t *testing.T) {
	rejected := stripANSI(FormatMutation("toggle", app.Rejected("m1-cert", app.RejectRequiresCert, "requires facilitator certification")))
	assert.Contains(t, rejected, "✖ toggle rejected (REQUIRES_CERTIFICATION): requires facilitator certification")

	noop := stripANSI(FormatMutation("attend", app.Accepted("m1-cert", false)))
	assert.Contains(t, noop, "no change")

	res := app.Accepted("m1-watch", true)
	res.Record = &domain.ProgressRecord{Status: domain.ProgressCompleted}
	assert.Contains(t, stripANSI(FormatMutation("toggle", res)), "✔ toggle  completed  m1-watch")

	signed := app.Accepted("", true)
	signed.Milestone = &domain.MilestoneProgress{Milestone: 2}
	assert.Contains(t, stripANSI(FormatMutation("sign-off", signed)), "milestone 2")
}

func TestFormatRegistrations(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	starts := now.AddDate(0, 0, 1)
	out := stripANSI(FormatRegistrations([]domain.SessionRegistration{
		{ID: "0123456789", SessionTitle: "Coaching call", Milestone: 1, CoachName: "Sam", StartsAt: &starts, Status: domain.RegistrationRegistered},
		{ID: "abc", SessionTitle: "Circle", Status: domain.RegistrationCancelled},
	}, now))

	assert.Contains(t, out, "SESSIONS")
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "Tomorrow")
	assert.Contains(t, out, "○ Registered")
	assert.Contains(t, out, "unscheduled")
	assert.Contains(t, out, "✖ Cancelled")

	assert.Contains(t, stripANSI(FormatRegistrations(nil, now)), "No session registrations.")
}

func TestFormatStats(t *testing.T) {
	out := stripANSI(FormatStats(&curriculum.Stats{
		TotalCompleted: 3,
		Points:         52,
		CurrentStreak:  2,
		LongestStreak:  4,
		Badges:         []curriculum.Badge{curriculum.BadgeFirstAction},
	}))
	assert.Contains(t, out, "52")
	assert.Contains(t, out, "2 (best 4)")
	assert.Contains(t, out, "★ First Steps")

	assert.Contains(t, stripANSI(FormatStats(&curriculum.Stats{})), "none yet")
}

func TestFormatPeriods_GroupsByPhase(t *testing.T) {
	out := stripANSI(FormatPeriods([]domain.PeriodConfig{
		{ID: "pre-onboarding", Phase: domain.PhasePreStart, Section: domain.SectionOnboarding, Day: 1, Actions: make([]domain.ActionDefinition, 2)},
		{ID: "m1", Phase: domain.PhaseMilestone, Number: 1, Title: "Foundation", SessionSlots: make([]domain.SessionSlot, 1)},
	}))
	assert.Contains(t, out, "Pre-Start\n")
	assert.Contains(t, out, "└─ Pre-Start / onboarding")
	assert.Contains(t, out, "[ 2 entries ]")
	assert.Contains(t, out, "[ 1 entry ]")
	assert.Contains(t, stripANSI(FormatPeriods(nil)), "No curriculum imported.")
}

func TestFormatPreviewAndImport(t *testing.T) {
	preview := stripANSI(FormatPreview(&curriculum.NormalizeResult{
		Items: []domain.ActionItem{{ID: "onb-1", Label: "Say hello", Required: true, Strategy: domain.StrategySimple, StrategySource: domain.SourceDefault}},
		Diagnostics: []curriculum.Diagnostic{{Kind: curriculum.DiagUnknownStrategy, PeriodID: "m1", ItemID: "m1-x", Detail: "fell back to simple"}},
	}))
	assert.Contains(t, preview, "simple (default)")
	assert.Contains(t, preview, "1 diagnostic")
	assert.Contains(t, preview, "unknown_strategy")

	imported := stripANSI(FormatImport(&app.ImportResult{PeriodCount: 6, ItemCount: 13, ResourceCount: 2, SessionTypeCount: 2, Diagnostics: 1}))
	assert.Contains(t, imported, "Imported 6 periods with 13 items, 2 resources and 2 session types")
	assert.Contains(t, imported, "1 diagnostic")
}

func TestFormatForms(t *testing.T) {
	out := stripANSI(FormatForms(map[domain.FormKind]bool{domain.FormLeaderProfile: true}))
	assert.Contains(t, out, "[x] leader-profile")
	assert.Contains(t, out, "[ ] baseline-assessment")
}
