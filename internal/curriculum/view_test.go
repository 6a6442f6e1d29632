package curriculum

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfigs() []domain.PeriodConfig {
	return []domain.PeriodConfig{
		{ID: "pre-onboarding", Phase: domain.PhasePreStart, Section: domain.SectionOnboarding,
			Actions: []domain.ActionDefinition{{ID: "onb-1", Label: "Set up account"}}},
		{ID: "pre-session1", Phase: domain.PhasePreStart, Section: domain.SectionSession1,
			Actions: []domain.ActionDefinition{{ID: "s1-1", Label: "Attend kickoff"}}},
		{ID: "pre-explore", Phase: domain.PhasePreStart, Section: domain.SectionExplore,
			Actions: []domain.ActionDefinition{{ID: "exp-1", Label: "Browse library"}}},
		{ID: "m1", Phase: domain.PhaseMilestone, Number: 1,
			Actions: []domain.ActionDefinition{
				{ID: "m1-watch", Label: "Watch foundation", ResourceID: "res-vid"},
				{ID: "m1-extra", Label: "Bonus", Optional: true},
			},
			SessionSlots: []domain.SessionSlot{{ID: "m1-cert", Kind: domain.SessionCoaching, SessionType: "st-coach", Certifies: true}}},
		{ID: "m2", Phase: domain.PhaseMilestone, Number: 2,
			Actions: []domain.ActionDefinition{{ID: "m2-read", Label: "Read feedback"}}},
	}
}

func viewFor(records []domain.ProgressRecord, regs []domain.SessionRegistration, milestones []domain.MilestoneProgress) View {
	return BuildView(ViewInput{
		Now:      testNow,
		Configs:  testConfigs(),
		Catalog:  testCatalog(),
		Snapshot: NewSnapshot(records, regs, nil, milestones),
	})
}

func verdictIDs(ivs []ItemVerdict) []string {
	var out []string
	for _, iv := range ivs {
		out = append(out, iv.Item.ID)
	}
	return out
}

func TestBuildView_PreStart(t *testing.T) {
	v := viewFor(nil, nil, nil)
	assert.Equal(t, domain.PreStart(), v.Position.Phase)
	assert.Equal(t, "Pre-Start", v.PhaseLabel)
	assert.Equal(t, []string{"onb-1", "s1-1"}, verdictIDs(v.Required))
	assert.Empty(t, v.Optional, "explore stays locked")
	assert.Empty(t, v.CarryOver)
}

func TestBuildView_Milestone1(t *testing.T) {
	v := viewFor([]domain.ProgressRecord{completed("onb-1"), completed("s1-1"), completed("m1-watch")}, nil, nil)
	assert.Equal(t, domain.Milestone(1), v.Position.Phase)
	assert.Equal(t, []string{"m1-watch", "m1-cert"}, verdictIDs(v.Required))
	assert.Equal(t, []string{"exp-1", "m1-extra"}, verdictIDs(v.Optional))
	assert.InDelta(t, 0.5, v.ProgressFraction, 1e-9)
	require.Len(t, v.Required, 2)
	assert.Equal(t, 12, v.Required[0].Item.DurationMinutes)
}

func TestBuildView_SignOffCarriesIncompleteItems(t *testing.T) {
	records := []domain.ProgressRecord{completed("onb-1"), completed("s1-1")}
	v := viewFor(records, nil, signedOff(testNow, 1))

	assert.Equal(t, domain.Milestone(2), v.Position.Phase)
	assert.Equal(t, []string{"m1-watch", "m1-cert"}, itemIDs(v.CarryOver))
	for _, c := range v.CarryOver {
		assert.Equal(t, domain.Milestone(1), c.FromPeriod.Phase)
	}
	assert.Equal(t, []string{"m2-read"}, verdictIDs(v.Required))
	assert.Contains(t, verdictIDs(v.Optional), CertificateItemID(1), "previous milestone certificate is optional")
}

func TestBuildView_CertificationScenario(t *testing.T) {
	base := []domain.ProgressRecord{completed("onb-1"), completed("s1-1")}
	reg := domain.SessionRegistration{ID: "r1", UserID: "u1", SessionID: "s1", ItemID: "m1-cert", Status: domain.RegistrationRegistered}

	certVerdict := func(v View) Verdict {
		for _, iv := range v.Required {
			if iv.Item.ID == "m1-cert" {
				return iv.Verdict
			}
		}
		t.Fatal("certification item missing")
		return Verdict{}
	}

	assert.Equal(t, StatusPending, certVerdict(viewFor(base, []domain.SessionRegistration{reg}, nil)).Status)
	reg.Status = domain.RegistrationAttended
	assert.NotEqual(t, StatusComplete, certVerdict(viewFor(base, []domain.SessionRegistration{reg}, nil)).Status)
	reg.Status = domain.RegistrationCertified
	assert.Equal(t, StatusComplete, certVerdict(viewFor(base, []domain.SessionRegistration{reg}, nil)).Status)
}

func TestBuildView_GraduationCertificateOnce(t *testing.T) {
	ms := signedOff(testNow, 1, 2, 3, 4, 5)
	v := viewFor(nil, nil, ms)
	require.True(t, v.Position.Graduated)

	var certs []string
	for _, iv := range append(v.Required, v.Optional...) {
		if iv.Item.Category == domain.CategoryCertificate {
			certs = append(certs, iv.Item.ID)
		}
	}
	assert.Equal(t, []string{CertificateItemID(5)}, certs)
	assert.Equal(t, []string{CertificateItemID(5)}, verdictIDs(v.Required))

	ms[4].CertificateViewed = true
	v = viewFor(nil, nil, ms)
	for _, iv := range append(v.Required, v.Optional...) {
		assert.NotEqual(t, domain.CategoryCertificate, iv.Item.Category)
	}
}

func TestBuildView_ExploreUnlockedIsOptional(t *testing.T) {
	records := []domain.ProgressRecord{completed("onb-1"), completed("s1-1")}
	cfgs := testConfigs()
	cfgs[2].Actions[0].Optional = false
	v := BuildView(ViewInput{Now: testNow, Configs: cfgs, Catalog: testCatalog(), Snapshot: NewSnapshot(records, nil, nil, nil)})
	assert.True(t, v.Position.ExploreUnlocked)
	assert.Contains(t, verdictIDs(v.Optional), "exp-1")
	assert.NotContains(t, verdictIDs(v.Required), "exp-1")
	assert.NotContains(t, itemIDs(v.CarryOver), "exp-1")
}

func TestFindItem(t *testing.T) {
	in := ViewInput{Configs: testConfigs(), Catalog: testCatalog()}
	item, ok := FindItem(in, "m2-read")
	require.True(t, ok)
	assert.Equal(t, domain.Milestone(2), item.Origin.Phase)

	item, ok = FindItem(in, CertificateItemID(3))
	require.True(t, ok)
	assert.Equal(t, domain.StrategyAcknowledgement, item.Strategy)

	_, ok = FindItem(in, "nope")
	assert.False(t, ok)
}

func dayConfigs() []domain.PeriodConfig {
	configs := testConfigs()[:3]
	for day := 1; day <= 3; day++ {
		configs = append(configs, domain.PeriodConfig{
			ID: fmt.Sprintf("m1-day%d", day), Phase: domain.PhaseMilestone, Number: 1, Day: day,
			Actions: []domain.ActionDefinition{{ID: fmt.Sprintf("m1-d%d-reflect", day), Label: "Daily reflection"}},
		})
	}
	return configs
}

func dayView(records []domain.ProgressRecord, now time.Time) View {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return BuildView(ViewInput{
		Now:        now,
		Configs:    dayConfigs(),
		Catalog:    testCatalog(),
		Snapshot:   NewSnapshot(records, nil, nil, nil),
		Enrollment: &domain.Enrollment{UserID: "u1", StartDate: start},
	})
}

func TestBuildView_DayPeriodsFollowProgramDay(t *testing.T) {
	gate := []domain.ProgressRecord{completed("onb-1"), completed("s1-1")}
	v := dayView(gate, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, 2, v.Position.Day)
	assert.Equal(t, 2, v.Position.Period.Day)
	assert.Equal(t, []string{"m1-d2-reflect"}, verdictIDs(v.Required), "day 3 stays hidden")
	assert.Equal(t, []string{"m1-d1-reflect"}, itemIDs(v.CarryOver))
	assert.Equal(t, 1, v.CarryOver[0].FromPeriod.Day)
}

func TestBuildView_SameLabelOnAnotherDayStaysOutstanding(t *testing.T) {
	rec := completed("m1-d1-reflect")
	rec.Label = "Daily reflection"
	rec.OriginPhase = domain.Milestone(1)
	records := []domain.ProgressRecord{completed("onb-1"), completed("s1-1"), rec}
	v := dayView(records, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	require.Len(t, v.Required, 1)
	assert.False(t, v.Required[0].Verdict.IsComplete(), "day 2 reflection is its own item")
	assert.Empty(t, v.CarryOver)
}

func TestBuildView_ExploreRecordDoesNotPassOnboarding(t *testing.T) {
	configs := testConfigs()
	configs[2].Actions[0].Label = "Set up account"
	rec := completed("exp-1")
	rec.Label = "Set up account"
	rec.OriginPhase = domain.PreStart()

	v := BuildView(ViewInput{
		Now:      testNow,
		Configs:  configs,
		Catalog:  testCatalog(),
		Snapshot: NewSnapshot([]domain.ProgressRecord{rec, completed("s1-1")}, nil, nil, nil),
	})
	assert.Equal(t, domain.PreStart(), v.Position.Phase)
	assert.False(t, v.Position.OnboardingComplete)
}
