package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormStatusRepo_SetAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteFormStatusRepo(db)
	repo.now = func() time.Time { return testutil.FixtureNow }
	ctx := context.Background()

	ok, err := repo.IsSubmitted(ctx, "u1", domain.FormLeaderProfile)
	require.NoError(t, err)
	assert.False(t, ok, "missing rows read as not submitted")

	require.NoError(t, repo.Set(ctx, "u1", domain.FormLeaderProfile, true))
	require.NoError(t, repo.Set(ctx, "u1", domain.FormBaselineAssessment, true))
	require.NoError(t, repo.Set(ctx, "u1", domain.FormBaselineAssessment, false))

	ok, err = repo.IsSubmitted(ctx, "u1", domain.FormLeaderProfile)
	require.NoError(t, err)
	assert.True(t, ok)

	forms, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[domain.FormKind]bool{
		domain.FormLeaderProfile:      true,
		domain.FormBaselineAssessment: false,
	}, forms)
}

func TestEnrollmentRepo_UpsertAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteEnrollmentRepo(db)
	ctx := context.Background()

	e := testutil.NewTestEnrollment("u1")
	require.NoError(t, repo.Upsert(ctx, e))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, e.StartDate.Equal(got.StartDate))
	assert.Nil(t, got.AscentStart)

	ascent := testutil.FixtureNow.AddDate(0, 1, 0)
	e.AscentStart = &ascent
	require.NoError(t, repo.Upsert(ctx, e))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].AscentStart)
	assert.True(t, ascent.Equal(*list[0].AscentStart))

	_, err = repo.Get(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnrollmentRepo_RejectsInvalid(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteEnrollmentRepo(db)

	err := repo.Upsert(context.Background(), testutil.NewTestEnrollment("u1", testutil.WithStartDate(time.Time{})))
	assert.ErrorIs(t, err, domain.ErrMissingStartDate)
}

func TestCarryOverMemoRepo_ReplaceKeepsOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCarryOverMemoRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, "u1", "s1", []string{"c", "a", "c", "b"}))
	require.NoError(t, repo.Replace(ctx, "u1", "s2", []string{"z"}))

	ids, err := repo.Get(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	require.NoError(t, repo.Replace(ctx, "u1", "s1", []string{"b"}))
	ids, err = repo.Get(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)

	require.NoError(t, repo.Clear(ctx, "u1", "s1"))
	ids, err = repo.Get(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repo.DeleteByUser(ctx, "u1"))
	ids, err = repo.Get(ctx, "u1", "s2")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCatalogRepo_ResourcesAndSessionTypes(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCatalogRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertResource(ctx, &domain.ResourceMetadata{ID: "res-vid", Type: "video", Title: "Intro", DurationMinutes: 12}))
	require.NoError(t, repo.UpsertResource(ctx, &domain.ResourceMetadata{ID: "res-vid", Type: "video", Title: "Intro v2", DurationMinutes: 14}))
	require.NoError(t, repo.UpsertSessionType(ctx, &domain.SessionType{ID: "st-coach", Kind: domain.SessionCoaching, Title: "1:1 Coaching"}))

	res, err := repo.GetResource(ctx, "res-vid")
	require.NoError(t, err)
	assert.Equal(t, "Intro v2", res.Title)
	assert.Equal(t, 14, res.DurationMinutes)

	all, err := repo.ListResources(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	types, err := repo.ListSessionTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, domain.SessionCoaching, types[0].Kind)

	_, err = repo.GetResource(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
