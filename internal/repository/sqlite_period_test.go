package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodConfigRepo_ReplaceAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePeriodConfigRepo(db)
	ctx := context.Background()

	cfg := testutil.NewTestPeriod("m1", domain.PhaseMilestone, 1,
		testutil.WithActions(
			domain.ActionDefinition{ID: "m1-watch", Label: "Watch the intro", ResourceID: "res-vid", ResourceType: "video"},
			domain.ActionDefinition{Label: "Write a reflection", Optional: true, HandlerTag: "reflection"},
		),
		testutil.WithSessionSlots(domain.SessionSlot{Kind: domain.SessionCoaching, SessionType: "st-coach", Certifies: true}),
		testutil.WithWeeklySlots(domain.WeeklySlot{Kind: domain.SessionCommunity, Label: "Leader circle", SessionType: "st-circle"}),
		testutil.WithFormSlots(domain.FormSlot{Label: "Leader profile", Form: domain.FormKinds[0]}),
	)
	require.NoError(t, repo.Replace(ctx, cfg))

	got, err := repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseMilestone, got.Phase)
	assert.Equal(t, 1, got.Number)
	require.Len(t, got.Actions, 2)
	assert.Equal(t, "m1-watch", got.Actions[0].ID)
	assert.Equal(t, "res-vid", got.Actions[0].ResourceID)
	assert.True(t, got.Actions[1].Optional)
	assert.Equal(t, "reflection", got.Actions[1].HandlerTag)
	require.Len(t, got.SessionSlots, 1)
	assert.True(t, got.SessionSlots[0].Certifies)
	require.Len(t, got.WeeklySlots, 1)
	assert.Equal(t, domain.SessionCommunity, got.WeeklySlots[0].Kind)
	require.Len(t, got.FormSlots, 1)
	assert.Equal(t, domain.FormKinds[0], got.FormSlots[0].Form)
}

func TestPeriodConfigRepo_ReplaceDropsRemovedEntries(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePeriodConfigRepo(db)
	ctx := context.Background()

	cfg := testutil.NewTestPeriod("m2", domain.PhaseMilestone, 2,
		testutil.WithActions(
			domain.ActionDefinition{ID: "a", Label: "A"},
			domain.ActionDefinition{ID: "b", Label: "B"},
		),
	)
	require.NoError(t, repo.Replace(ctx, cfg))

	cfg.Actions = cfg.Actions[1:]
	cfg.Title = "Feedback"
	require.NoError(t, repo.Replace(ctx, cfg))

	got, err := repo.GetByID(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, "Feedback", got.Title)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, "b", got.Actions[0].ID)
}

func TestPeriodConfigRepo_ListOrdersByPhase(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePeriodConfigRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, testutil.NewTestPeriod("m2", domain.PhaseMilestone, 2)))
	require.NoError(t, repo.Replace(ctx, testutil.NewTestPeriod("asc", domain.PhaseAscent, 0)))
	require.NoError(t, repo.Replace(ctx, testutil.NewTestPeriod("pre", domain.PhasePreStart, 0)))
	require.NoError(t, repo.Replace(ctx, testutil.NewTestPeriod("m1", domain.PhaseMilestone, 1)))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"pre", "m1", "m2", "asc"}, ids)
}

func TestPeriodConfigRepo_DeleteCascadesEntries(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePeriodConfigRepo(db)
	ctx := context.Background()

	cfg := testutil.NewTestPeriod("m3", domain.PhaseMilestone, 3,
		testutil.WithActions(domain.ActionDefinition{ID: "x", Label: "X"}))
	require.NoError(t, repo.Replace(ctx, cfg))
	require.NoError(t, repo.Delete(ctx, "m3"))

	_, err := repo.GetByID(ctx, "m3")
	assert.ErrorIs(t, err, ErrNotFound)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM period_entries`).Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, repo.Delete(ctx, "m3"), ErrNotFound)
}
