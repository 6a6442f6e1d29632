package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/waypoint/internal/db"
)

// FailOnNthExecUoW runs work in a real SQLite transaction but fails the
// FailOn-th write (1-based) with Err. Reads pass through uncounted.
// FailedQuery keeps the statement that was refused, so a test can tell
// which step of a multi-write mutation was cut off.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	FailedQuery string
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		w := &writeFailer{DBTX: tx, failOn: u.FailOn, err: u.Err}
		err := fn(ctx, w)
		u.FailedQuery = w.failed
		return err
	})
}

type writeFailer struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
	failed string
}

func (w *writeFailer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if w.writes.Add(1) != w.failOn {
		return w.DBTX.ExecContext(ctx, query, args...)
	}
	w.failed = query
	return nil, w.err
}
