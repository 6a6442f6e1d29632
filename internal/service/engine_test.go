package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/logger"
	"github.com/alexanderramin/waypoint/internal/testutil"
	"github.com/stretchr/testify/require"
)

const testCurriculum = "testdata/curriculum.yaml"

func fixedClock() time.Time { return testutil.FixtureNow }

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

// testEngine wires every service over one in-memory database with the
// clock pinned to testutil.FixtureNow.
type testEngine struct {
	db            *sql.DB
	repos         Repos
	observer      *recordingObserver
	progression   ProgressionService
	registrations RegistrationService
	facilitator   FacilitatorService
	enrollments   EnrollmentService
	curriculum    CurriculumService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	database := testutil.NewTestDB(t)
	repos := NewSQLiteRepos(database)
	uow := testutil.NewTestUoW(database)
	obs := &recordingObserver{}

	e := &testEngine{db: database, repos: repos, observer: obs}
	e.progression = withClock(NewProgressionService(repos, uow, logger.Nop(), time.UTC, obs))
	e.registrations = withClock(NewRegistrationService(repos, uow, time.UTC, obs))
	e.facilitator = withClock(NewFacilitatorService(repos, uow, logger.Nop(), obs))
	e.enrollments = withClock(NewEnrollmentService(repos, obs))
	e.curriculum = withClock(NewCurriculumService(repos, uow, logger.Nop(), obs))

	_, err := e.curriculum.ImportCurriculum(context.Background(), testCurriculum)
	require.NoError(t, err)
	return e
}

// withClock pins a service's clock to testutil.FixtureNow.
func withClock[S any](svc S) S {
	switch s := any(svc).(type) {
	case *progressionService:
		s.now = fixedClock
	case *registrationService:
		s.now = fixedClock
	case *facilitatorService:
		s.now = fixedClock
	case *enrollmentService:
		s.now = fixedClock
	case *curriculumService:
		s.now = fixedClock
	}
	return svc
}

func (e *testEngine) enroll(t *testing.T, userID string, ascentStart *time.Time) {
	t.Helper()
	_, err := e.enrollments.Enroll(context.Background(), userID, testutil.FixtureNow.AddDate(0, 0, -3), ascentStart)
	require.NoError(t, err)
}

func (e *testEngine) view(t *testing.T, userID, sessionID string) *app.CurrentView {
	t.Helper()
	v, err := e.progression.GetCurrentView(context.Background(), app.NewViewRequest(userID, sessionID))
	require.NoError(t, err)
	return v
}

func (e *testEngine) toggle(t *testing.T, userID, itemID string) *app.MutationResult {
	t.Helper()
	res, err := e.progression.ToggleItem(context.Background(), userID, itemID)
	require.NoError(t, err)
	return res
}

func (e *testEngine) signOff(t *testing.T, userID string, milestones ...int) {
	t.Helper()
	for _, n := range milestones {
		res, err := e.facilitator.SignOffMilestone(context.Background(), domain.FacilitatorActor("coach-1"), userID, n)
		require.NoError(t, err)
		require.True(t, res.Accepted, "sign-off %d: %s", n, res.Message)
	}
}

// passPreStart completes both gating PreStart sections.
func (e *testEngine) passPreStart(t *testing.T, userID string) {
	t.Helper()
	for _, id := range []string{"onb-1", "onb-2", "onb-3", "onb-4", "s1-kickoff"} {
		require.True(t, e.toggle(t, userID, id).Accepted, id)
	}
	require.NoError(t, e.enrollments.SetFormStatus(context.Background(), userID, domain.FormLeaderProfile, true))
}

func (e *testEngine) schedule(t *testing.T, userID, itemID, sessionID string) *app.MutationResult {
	t.Helper()
	res, err := e.registrations.ScheduleSession(context.Background(), app.ScheduleRequest{
		UserID:    userID,
		ItemID:    itemID,
		SessionID: sessionID,
		StartsAt:  "2025-06-20T15:00:00Z",
	})
	require.NoError(t, err)
	return res
}

func findView(items []app.ItemView, id string) (app.ItemView, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return app.ItemView{}, false
}

func viewIDs(items []app.ItemView) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
