package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
)

type SQLiteFormStatusRepo struct {
	db db.DBTX
	// now stamps updated_at; tests may replace it.
	now func() time.Time
}

func NewSQLiteFormStatusRepo(conn db.DBTX) *SQLiteFormStatusRepo {
	return &SQLiteFormStatusRepo{db: conn, now: time.Now}
}

func (r *SQLiteFormStatusRepo) IsSubmitted(ctx context.Context, userID string, kind domain.FormKind) (bool, error) {
	var submitted int
	err := r.db.QueryRowContext(ctx,
		`SELECT submitted FROM form_status WHERE user_id = ? AND form_kind = ?`, userID, string(kind),
	).Scan(&submitted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("reading form status: %w", err)
	}
	return intToBool(submitted), nil
}

func (r *SQLiteFormStatusRepo) ListByUser(ctx context.Context, userID string) (map[domain.FormKind]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT form_kind, submitted FROM form_status WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing form status: %w", err)
	}
	defer rows.Close()

	out := map[domain.FormKind]bool{}
	for rows.Next() {
		var kind string
		var submitted int
		if err := rows.Scan(&kind, &submitted); err != nil {
			return nil, fmt.Errorf("scanning form status: %w", err)
		}
		out[domain.FormKind(kind)] = intToBool(submitted)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating form status: %w", err)
	}
	return out, nil
}

func (r *SQLiteFormStatusRepo) Set(ctx context.Context, userID string, kind domain.FormKind, submitted bool) error {
	if userID == "" {
		return domain.ErrEmptyUserID
	}
	query := `INSERT INTO form_status (user_id, form_kind, submitted, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, form_kind) DO UPDATE SET submitted = excluded.submitted, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, userID, string(kind), boolToInt(submitted), formatTime(r.now())); err != nil {
		return fmt.Errorf("setting form status %s: %w", kind, err)
	}
	return nil
}
