package curriculum

import (
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func completed(itemID string) domain.ProgressRecord {
	at := testNow
	return domain.ProgressRecord{ItemID: itemID, Status: domain.ProgressCompleted, CompletedAt: &at}
}

func simpleItem(id, label string, phase domain.Phase) domain.ActionItem {
	return domain.ActionItem{
		ID: id, Label: label, Required: true,
		Strategy: domain.StrategySimple,
		Origin:   domain.PeriodRef{Phase: phase},
	}
}

func TestResolveSimple_ByID(t *testing.T) {
	item := simpleItem("a1", "Watch", domain.Milestone(1))
	snap := NewSnapshot([]domain.ProgressRecord{completed("a1")}, nil, nil, nil)
	v := Resolve(item, snap)
	assert.Equal(t, StatusComplete, v.Status)
	assert.Equal(t, MatchID, v.MatchedBy)
}

func TestResolveSimple_IsDeterministic(t *testing.T) {
	item := simpleItem("a1", "Watch", domain.Milestone(1))
	snap := NewSnapshot([]domain.ProgressRecord{completed("a1")}, nil, nil, nil)
	assert.Equal(t, Resolve(item, snap), Resolve(item, snap))
}

func TestResolveSimple_HandlerFallback(t *testing.T) {
	item := simpleItem("new-id", "Watch", domain.Milestone(1))
	item.HandlerTag = "legacy-watch"
	snap := NewSnapshot([]domain.ProgressRecord{completed("legacy-watch")}, nil, nil, nil)
	v := Resolve(item, snap)
	assert.Equal(t, StatusComplete, v.Status)
	assert.Equal(t, MatchHandler, v.MatchedBy)
}

func TestResolveSimple_LabelFallbackScopedToPhase(t *testing.T) {
	rec := completed("old-id")
	rec.Label = "Reflect on feedback"
	rec.OriginPhase = domain.Milestone(1)
	snap := NewSnapshot([]domain.ProgressRecord{rec}, nil, nil, nil)

	same := simpleItem("new-id", "REFLECT on feedback", domain.Milestone(1))
	v := Resolve(same, snap)
	assert.Equal(t, StatusComplete, v.Status)
	assert.Equal(t, MatchLabel, v.MatchedBy)

	other := simpleItem("m3-id", "Reflect on feedback", domain.Milestone(3))
	assert.Equal(t, StatusPending, Resolve(other, snap).Status, "label match must not cross phases")
}

func TestResolveSimple_CurrentRecordLeavesSameLabelSiblingAlone(t *testing.T) {
	day1 := simpleItem("m1-d1-reflect", "Daily reflection", domain.Milestone(1))
	day2 := simpleItem("m1-d2-reflect", "Daily reflection", domain.Milestone(1))
	day1.HandlerTag, day2.HandlerTag = "reflection", "reflection"

	rec := completed(day1.ID)
	rec.Label = day1.Label
	rec.HandlerTag = day1.HandlerTag
	rec.OriginPhase = domain.Milestone(1)
	snap := NewSnapshot([]domain.ProgressRecord{rec}, nil, nil, nil).ScopeLegacy([]string{day1.ID, day2.ID})

	assert.True(t, Resolve(day1, snap).IsComplete())
	v := Resolve(day2, snap)
	assert.Equal(t, StatusPending, v.Status)
	assert.Equal(t, MatchNone, v.MatchedBy)
}

func TestResolveSimple_OrphanRecordStillMatchesAfterScoping(t *testing.T) {
	rec := completed("retired-id")
	rec.Label = "Daily reflection"
	rec.OriginPhase = domain.Milestone(1)
	item := simpleItem("m1-reflect", "Daily reflection", domain.Milestone(1))
	snap := NewSnapshot([]domain.ProgressRecord{rec}, nil, nil, nil).ScopeLegacy([]string{item.ID})

	v := Resolve(item, snap)
	assert.Equal(t, StatusComplete, v.Status)
	assert.Equal(t, MatchLabel, v.MatchedBy)
}

func TestResolveSimple_CurrentIDNotTreatedAsHandlerRecord(t *testing.T) {
	// A live item whose id equals another item's handler tag.
	owner := simpleItem("reflection", "Reflect", domain.Milestone(1))
	tagged := simpleItem("m1-new", "Journal", domain.Milestone(1))
	tagged.HandlerTag = "reflection"
	snap := NewSnapshot([]domain.ProgressRecord{completed(owner.ID)}, nil, nil, nil).
		ScopeLegacy([]string{owner.ID, tagged.ID})

	assert.Equal(t, StatusPending, Resolve(tagged, snap).Status)
}

func TestResolveSimple_IDRecordIsAuthoritative(t *testing.T) {
	legacy := completed("old-id")
	legacy.Label = "Watch"
	legacy.OriginPhase = domain.Milestone(1)
	uncompleted := domain.ProgressRecord{ItemID: "a1", Status: domain.ProgressPending}
	snap := NewSnapshot([]domain.ProgressRecord{legacy, uncompleted}, nil, nil, nil)

	v := Resolve(simpleItem("a1", "Watch", domain.Milestone(1)), snap)
	assert.Equal(t, StatusPending, v.Status)
	assert.Equal(t, MatchID, v.MatchedBy)
}

func TestResolveSimple_Skipped(t *testing.T) {
	snap := NewSnapshot([]domain.ProgressRecord{{ItemID: "a1", Status: domain.ProgressSkipped}}, nil, nil, nil)
	v := Resolve(simpleItem("a1", "Watch", domain.Milestone(1)), snap)
	assert.Equal(t, StatusPending, v.Status)
	assert.Equal(t, ReasonSkipped, v.Reason)
}

func TestResolveInteractive_OnlyFormSignal(t *testing.T) {
	item := domain.ActionItem{ID: "f1", Label: "Leader profile", Strategy: domain.StrategyInteractive, Form: domain.FormLeaderProfile}

	// A generic record under the id is ignored.
	snap := NewSnapshot([]domain.ProgressRecord{completed("f1")}, nil, nil, nil)
	assert.Equal(t, StatusPending, Resolve(item, snap).Status)

	snap = NewSnapshot(nil, nil, map[domain.FormKind]bool{domain.FormLeaderProfile: true}, nil)
	v := Resolve(item, snap)
	assert.Equal(t, StatusComplete, v.Status)
	assert.Equal(t, MatchForm, v.MatchedBy)
}

func registration(itemID string, status domain.RegistrationStatus) domain.SessionRegistration {
	return domain.SessionRegistration{ID: "r-" + string(status), UserID: "u1", SessionID: "s1", ItemID: itemID, Status: status}
}

func TestResolveSession_SubStates(t *testing.T) {
	item := domain.ActionItem{ID: "c1", Strategy: domain.StrategySessionSchedule}
	cases := []struct {
		regs    []domain.SessionRegistration
		status  VerdictStatus
		session SessionState
	}{
		{nil, StatusPending, SessionUnscheduled},
		{[]domain.SessionRegistration{registration("c1", domain.RegistrationCancelled)}, StatusPending, SessionUnscheduled},
		{[]domain.SessionRegistration{registration("c1", domain.RegistrationRegistered)}, StatusPending, SessionScheduled},
		{[]domain.SessionRegistration{registration("c1", domain.RegistrationAttended)}, StatusComplete, SessionAttended},
		{[]domain.SessionRegistration{registration("c1", domain.RegistrationCertified)}, StatusComplete, SessionCertified},
	}
	for _, tc := range cases {
		v := Resolve(item, NewSnapshot(nil, tc.regs, nil, nil))
		assert.Equal(t, tc.status, v.Status)
		assert.Equal(t, tc.session, v.Session)
	}
}

func TestResolveCertification_OnlyCertifiedCompletes(t *testing.T) {
	item := domain.ActionItem{ID: "g1", Strategy: domain.StrategyCertificationGate, SessionType: "st-coach", Milestone: 1}

	v := Resolve(item, NewSnapshot([]domain.ProgressRecord{completed("g1")}, nil, nil, nil))
	assert.Equal(t, StatusPending, v.Status, "a progress record never completes a certification gate")

	v = Resolve(item, NewSnapshot(nil, []domain.SessionRegistration{registration("g1", domain.RegistrationRegistered)}, nil, nil))
	assert.Equal(t, StatusPending, v.Status)

	v = Resolve(item, NewSnapshot(nil, []domain.SessionRegistration{registration("g1", domain.RegistrationAttended)}, nil, nil))
	assert.Equal(t, StatusBlocked, v.Status)
	assert.Equal(t, ReasonAwaitingCertification, v.Reason)

	v = Resolve(item, NewSnapshot(nil, []domain.SessionRegistration{registration("g1", domain.RegistrationCertified)}, nil, nil))
	assert.Equal(t, StatusComplete, v.Status)
}

func TestResolveCertification_MatchesBySessionTypeAndMilestone(t *testing.T) {
	item := domain.ActionItem{ID: "g1", Strategy: domain.StrategyCertificationGate, SessionType: "st-coach", Milestone: 2}
	reg := domain.SessionRegistration{ID: "r1", ItemID: "other", SessionTypeID: "st-coach", Milestone: 2, Status: domain.RegistrationCertified}
	assert.Equal(t, StatusComplete, Resolve(item, NewSnapshot(nil, []domain.SessionRegistration{reg}, nil, nil)).Status)

	reg.Milestone = 1
	assert.Equal(t, StatusPending, Resolve(item, NewSnapshot(nil, []domain.SessionRegistration{reg}, nil, nil)).Status)
}

func TestResolveCertification_PicksFurthestRegistration(t *testing.T) {
	item := domain.ActionItem{ID: "g1", Strategy: domain.StrategyCertificationGate}
	regs := []domain.SessionRegistration{
		registration("g1", domain.RegistrationCertified),
		registration("g1", domain.RegistrationRegistered),
	}
	v := Resolve(item, NewSnapshot(nil, regs, nil, nil))
	assert.Equal(t, StatusComplete, v.Status)
	assert.Equal(t, "r-certified", v.RegistrationID)
}

func TestResolveAcknowledgement(t *testing.T) {
	item := CertificateItem(5, true)
	signed := domain.MilestoneProgress{Milestone: 5, SignedOff: true}
	assert.Equal(t, StatusPending, Resolve(item, NewSnapshot(nil, nil, nil, []domain.MilestoneProgress{signed})).Status)

	signed.CertificateViewed = true
	assert.Equal(t, StatusComplete, Resolve(item, NewSnapshot(nil, nil, nil, []domain.MilestoneProgress{signed})).Status)
}

func TestProgressFraction(t *testing.T) {
	assert.Equal(t, 0.0, ProgressFraction(nil))
	verdicts := []Verdict{
		{Status: StatusComplete},
		{Status: StatusPending, Session: SessionScheduled},
		{Status: StatusBlocked},
		{Status: StatusComplete},
	}
	assert.InDelta(t, 0.5, ProgressFraction(verdicts), 1e-9)
}
