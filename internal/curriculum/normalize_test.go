package curriculum

import (
	"testing"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return NewCatalog(
		[]domain.ResourceMetadata{
			{ID: "res-vid", Type: "video", Title: "Intro", DurationMinutes: 12},
			{ID: "res-series", Type: "video_series", Title: "Series", DurationMinutes: 45},
			{ID: "res-tool", Type: "tool", Title: "Worksheet"},
		},
		[]domain.SessionType{
			{ID: "st-coach", Kind: domain.SessionCoaching, Title: "1:1 Coaching"},
			{ID: "st-circle", Kind: domain.SessionCommunity, Title: "Leader Circle"},
		},
	)
}

func milestonePeriod(n int, actions ...domain.ActionDefinition) domain.PeriodConfig {
	return domain.PeriodConfig{ID: "m" + string(rune('0'+n)), Phase: domain.PhaseMilestone, Number: n, Actions: actions}
}

func ids(items []domain.ActionItem) map[string]string {
	out := map[string]string{}
	for _, it := range items {
		out[it.Label] = it.ID
	}
	return out
}

func TestNormalize_SameInputsSameIDs(t *testing.T) {
	cfg := milestonePeriod(1,
		domain.ActionDefinition{Label: "Watch intro"},
		domain.ActionDefinition{Label: "Read chapter 1"},
	)
	a := Normalize(cfg, testCatalog())
	b := Normalize(cfg, testCatalog())
	assert.Equal(t, a.Items, b.Items)
}

func TestNormalize_UnrelatedInsertKeepsIDs(t *testing.T) {
	before := Normalize(milestonePeriod(1,
		domain.ActionDefinition{Label: "Watch intro"},
		domain.ActionDefinition{Label: "Read chapter 1"},
		domain.ActionDefinition{Label: "Journal", SlotKey: "journal"},
	), testCatalog())
	after := Normalize(milestonePeriod(1,
		domain.ActionDefinition{Label: "Brand new first item"},
		domain.ActionDefinition{Label: "Watch intro"},
		domain.ActionDefinition{Label: "Another insert"},
		domain.ActionDefinition{Label: "Read chapter 1"},
		domain.ActionDefinition{Label: "Journal, renamed", SlotKey: "journal"},
	), testCatalog())

	b, a := ids(before.Items), ids(after.Items)
	assert.Equal(t, b["Watch intro"], a["Watch intro"])
	assert.Equal(t, b["Read chapter 1"], a["Read chapter 1"])
	assert.Equal(t, b["Journal"], a["Journal, renamed"], "slot key survives a label edit")
}

func TestNormalize_ExplicitIDWins(t *testing.T) {
	res := Normalize(milestonePeriod(1, domain.ActionDefinition{ID: "a-1", Label: "X", SlotKey: "k"}), testCatalog())
	require.Len(t, res.Items, 1)
	assert.Equal(t, "a-1", res.Items[0].ID)
}

func TestNormalize_EqualLabelsGetDistinctIDs(t *testing.T) {
	res := Normalize(milestonePeriod(1,
		domain.ActionDefinition{Label: "Reflect"},
		domain.ActionDefinition{Label: "reflect"},
	), testCatalog())
	require.Len(t, res.Items, 2)
	assert.NotEqual(t, res.Items[0].ID, res.Items[1].ID)
	assert.Empty(t, res.Diagnostics)
}

func TestNormalize_DifferentPeriodsDifferentIDs(t *testing.T) {
	a := Normalize(milestonePeriod(1, domain.ActionDefinition{Label: "Reflect"}), testCatalog())
	b := Normalize(milestonePeriod(2, domain.ActionDefinition{Label: "Reflect"}), testCatalog())
	assert.NotEqual(t, a.Items[0].ID, b.Items[0].ID)
}

func TestNormalize_StrategyPrecedence(t *testing.T) {
	cases := []struct {
		name     string
		def      domain.ActionDefinition
		strategy domain.CompletionStrategy
		source   domain.StrategySource
		form     domain.FormKind
	}{
		{"explicit beats resource", domain.ActionDefinition{Label: "Watch", Strategy: "simple", ResourceID: "res-vid"},
			domain.StrategySimple, domain.SourceExplicit, ""},
		{"resource video", domain.ActionDefinition{Label: "Watch", ResourceID: "res-vid"},
			domain.StrategyResourceView, domain.SourceResource, ""},
		{"resource beats keyword", domain.ActionDefinition{Label: "Video series part 1", ResourceID: "res-vid"},
			domain.StrategyResourceView, domain.SourceResource, ""},
		{"keyword", domain.ActionDefinition{Label: "Complete your Leader Profile"},
			domain.StrategyInteractive, domain.SourceKeyword, domain.FormLeaderProfile},
		{"handler tag names a form", domain.ActionDefinition{Label: "Profile", HandlerTag: "baseline-assessment"},
			domain.StrategyInteractive, domain.SourceExplicit, domain.FormBaselineAssessment},
		{"default", domain.ActionDefinition{Label: "Read a book"},
			domain.StrategySimple, domain.SourceDefault, ""},
		{"unmapped resource type", domain.ActionDefinition{Label: "Use worksheet", ResourceID: "res-tool"},
			domain.StrategySimple, domain.SourceDefault, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Normalize(milestonePeriod(1, tc.def), testCatalog())
			require.Len(t, res.Items, 1)
			item := res.Items[0]
			assert.Equal(t, tc.strategy, item.Strategy)
			assert.Equal(t, tc.source, item.StrategySource)
			assert.Equal(t, tc.form, item.Form)
		})
	}
}

func TestNormalize_VideoSeriesNeedsDurationLookup(t *testing.T) {
	res := Normalize(milestonePeriod(1, domain.ActionDefinition{Label: "Series", ResourceID: "res-series"}), testCatalog())
	require.Len(t, res.Items, 1)
	assert.Equal(t, domain.StrategyResourceView, res.Items[0].Strategy)
	assert.True(t, res.Items[0].DurationLookup)
}

func TestNormalize_KeywordInferenceIsDiagnosed(t *testing.T) {
	res := Normalize(milestonePeriod(1, domain.ActionDefinition{Label: "Baseline Assessment"}), testCatalog())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, DiagKeywordInference, res.Diagnostics[0].Kind)
}

func TestNormalize_ConfigurationErrorsFallBackToSimple(t *testing.T) {
	cases := []struct {
		name string
		def  domain.ActionDefinition
		kind DiagnosticKind
	}{
		{"unknown strategy", domain.ActionDefinition{Label: "A", Strategy: "telepathy"}, DiagUnknownStrategy},
		{"missing resource", domain.ActionDefinition{Label: "B", ResourceID: "gone"}, DiagMissingResource},
		{"explicit resource-view missing resource", domain.ActionDefinition{Label: "C", Strategy: "resource-view", ResourceID: "gone"}, DiagMissingResource},
		{"unknown session type", domain.ActionDefinition{Label: "D", Strategy: "session-schedule", SessionType: "nope"}, DiagUnknownSessionType},
		{"interactive without form", domain.ActionDefinition{Label: "E", Strategy: "interactive"}, DiagMissingForm},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Normalize(milestonePeriod(1, tc.def), testCatalog())
			require.Len(t, res.Items, 1)
			assert.Equal(t, domain.StrategySimple, res.Items[0].Strategy)
			assert.Equal(t, domain.SourceFallback, res.Items[0].StrategySource)
			require.Len(t, res.Diagnostics, 1)
			assert.Equal(t, tc.kind, res.Diagnostics[0].Kind)
		})
	}
}

func TestNormalize_FiltersMicroHabits(t *testing.T) {
	res := Normalize(milestonePeriod(1,
		domain.ActionDefinition{Label: "Daily rep", ContentType: "daily_rep"},
		domain.ActionDefinition{Label: "Habit", ContentType: "Micro_Habit"},
		domain.ActionDefinition{Label: "Keep", ContentType: "reading"},
	), testCatalog())
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Keep", res.Items[0].Label)
}

func TestNormalize_ExpandsSlots(t *testing.T) {
	cfg := domain.PeriodConfig{
		ID: "m2", Phase: domain.PhaseMilestone, Number: 2,
		WeeklySlots: []domain.WeeklySlot{
			{Kind: domain.SessionCommunity, Label: "Open gym", SessionType: "st-circle"},
			{Kind: domain.SessionCoaching, Label: "Coaching notes"},
		},
		SessionSlots: []domain.SessionSlot{
			{Kind: domain.SessionCoaching, SessionType: "st-coach", Certifies: true},
			{Kind: domain.SessionCommunity, SessionType: "st-circle", Optional: true},
		},
		FormSlots: []domain.FormSlot{{Label: "Commitment", Form: domain.FormFoundationCommitment}},
	}
	res := Normalize(cfg, testCatalog())
	require.Len(t, res.Items, 5)
	assert.Empty(t, res.Diagnostics)

	byLabel := map[string]domain.ActionItem{}
	for _, it := range res.Items {
		byLabel[it.Label] = it
		assert.Equal(t, "m2", it.Origin.PeriodID)
		assert.Equal(t, domain.Milestone(2), it.Origin.Phase)
	}
	assert.Equal(t, domain.StrategySessionSchedule, byLabel["Open gym"].Strategy)
	assert.Equal(t, domain.CategoryCommunity, byLabel["Open gym"].Category)
	assert.Equal(t, domain.StrategySimple, byLabel["Coaching notes"].Strategy)

	cert := byLabel["1:1 Coaching"]
	assert.Equal(t, domain.StrategyCertificationGate, cert.Strategy)
	assert.Equal(t, 2, cert.Milestone)
	assert.True(t, cert.Required)

	assert.False(t, byLabel["Leader Circle"].Required)
	assert.Equal(t, domain.StrategyInteractive, byLabel["Commitment"].Strategy)
	assert.Equal(t, domain.FormFoundationCommitment, byLabel["Commitment"].Form)
}

func TestNormalize_UnknownSlotSessionTypeFallsBack(t *testing.T) {
	cfg := domain.PeriodConfig{
		ID: "m1", Phase: domain.PhaseMilestone, Number: 1,
		SessionSlots: []domain.SessionSlot{{Label: "Mystery", SessionType: "missing", Certifies: true}},
	}
	res := Normalize(cfg, testCatalog())
	require.Len(t, res.Items, 1)
	assert.Equal(t, domain.StrategySimple, res.Items[0].Strategy)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, DiagUnknownSessionType, res.Diagnostics[0].Kind)
}

func TestNormalize_DuplicateExplicitIDs(t *testing.T) {
	res := Normalize(milestonePeriod(1,
		domain.ActionDefinition{ID: "dup", Label: "One"},
		domain.ActionDefinition{ID: "dup", Label: "Two"},
	), testCatalog())
	require.Len(t, res.Items, 2)
	assert.Equal(t, "dup", res.Items[0].ID)
	assert.Equal(t, "dup-2", res.Items[1].ID)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, DiagDuplicateID, res.Diagnostics[0].Kind)
}

func TestNormalizeAll_CurriculumOrder(t *testing.T) {
	configs := []domain.PeriodConfig{
		milestonePeriod(2, domain.ActionDefinition{Label: "Second"}),
		{ID: "pre-s1", Phase: domain.PhasePreStart, Section: domain.SectionSession1,
			Actions: []domain.ActionDefinition{{Label: "Session one"}}},
		{ID: "pre-on", Phase: domain.PhasePreStart, Section: domain.SectionOnboarding,
			Actions: []domain.ActionDefinition{{Label: "Onboard"}}},
		milestonePeriod(1, domain.ActionDefinition{Label: "First"}),
	}
	res := NormalizeAll(configs, testCatalog())
	var labels []string
	for _, it := range res.Items {
		labels = append(labels, it.Label)
	}
	assert.Equal(t, []string{"Onboard", "Session one", "First", "Second"}, labels)
}
