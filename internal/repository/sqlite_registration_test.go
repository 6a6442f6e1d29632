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

func TestRegistrationRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRegistrationRepo(db)
	ctx := context.Background()

	reg := testutil.NewTestRegistration("u1", "m1-coach", testutil.WithSessionType("st-coach", 1))
	starts := testutil.FixtureNow.AddDate(0, 0, 2)
	reg.StartsAt = &starts
	reg.CoachName = "Dana"
	require.NoError(t, repo.Create(ctx, reg))

	got, err := repo.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationRegistered, got.Status)
	assert.Equal(t, "st-coach", got.SessionTypeID)
	assert.Equal(t, 1, got.Milestone)
	assert.Equal(t, "Dana", got.CoachName)
	require.NotNil(t, got.StartsAt)
	assert.True(t, starts.Equal(*got.StartsAt))
	assert.Nil(t, got.AttendedAt)
}

func TestRegistrationRepo_CreateValidates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRegistrationRepo(db)

	reg := testutil.NewTestRegistration("u1", "item", testutil.WithSessionID(""))
	assert.ErrorIs(t, repo.Create(context.Background(), reg), domain.ErrEmptySessionID)
}

func TestRegistrationRepo_UpdateTransitions(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRegistrationRepo(db)
	ctx := context.Background()

	reg := testutil.NewTestRegistration("u1", "m1-coach")
	require.NoError(t, repo.Create(ctx, reg))

	require.NoError(t, reg.MarkAttended(testutil.FixtureNow))
	require.NoError(t, reg.Certify(domain.FacilitatorActor("f1"), testutil.FixtureNow))
	require.NoError(t, repo.Update(ctx, reg))

	got, err := repo.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationCertified, got.Status)
	assert.Equal(t, "f1", got.CertifiedBy)
	assert.NotNil(t, got.AttendedAt)
	assert.NotNil(t, got.CertifiedAt)
}

func TestRegistrationRepo_UpdateMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRegistrationRepo(db)

	reg := testutil.NewTestRegistration("u1", "item")
	assert.ErrorIs(t, repo.Update(context.Background(), reg), ErrNotFound)
}

func TestRegistrationRepo_ListActiveByItemSkipsCancelled(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRegistrationRepo(db)
	ctx := context.Background()

	cancelled := testutil.NewTestRegistration("u1", "m1-coach",
		testutil.WithRegistrationStatus(domain.RegistrationCancelled))
	active := testutil.NewTestRegistration("u1", "m1-coach",
		testutil.WithRegisteredAt(testutil.FixtureNow.Add(time.Hour)))
	other := testutil.NewTestRegistration("u1", "m2-coach")
	for _, r := range []*domain.SessionRegistration{cancelled, active, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	list, err := repo.ListActiveByItem(ctx, "u1", "m1-coach")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	all, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 3, "cancelled attempts are kept")
}
