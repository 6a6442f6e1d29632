package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUnitOfWork(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertEnrollment(ctx context.Context, tx db.DBTX, userID string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO enrollments (user_id, start_date, created_at, updated_at) VALUES (?, '2025-01-01', '2025-01-01', '2025-01-01')`,
		userID)
	return err
}

func enrolled(t *testing.T, uow *db.SQLiteUnitOfWork, userID string) bool {
	t.Helper()
	var found bool
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM enrollments WHERE user_id = ?`, userID).Scan(&n); err != nil {
			return err
		}
		found = n > 0
		return nil
	})
	require.NoError(t, err)
	return found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openUnitOfWork(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertEnrollment(ctx, tx, "u1")
	})
	require.NoError(t, err)
	assert.True(t, enrolled(t, uow, "u1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openUnitOfWork(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertEnrollment(ctx, tx, "u2"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, enrolled(t, uow, "u2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openUnitOfWork(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertEnrollment(ctx, tx, "u3")
			panic("boom")
		})
	})
	assert.False(t, enrolled(t, uow, "u3"))
}
