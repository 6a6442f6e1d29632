package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
)

// SQLiteProgressRepo implements ProgressRepo. There is one row per user and
// item; Upsert overwrites status and snapshots but keeps the original id and
// created_at.
type SQLiteProgressRepo struct {
	db db.DBTX
}

func NewSQLiteProgressRepo(conn db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: conn}
}

const progressColumns = `id, user_id, item_id, status, label, handler_tag, origin_phase,
	origin_phase_number, origin_week, carried_over, category, completed_at, created_at, updated_at`

func (r *SQLiteProgressRepo) Get(ctx context.Context, userID, itemID string) (*domain.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + ` FROM progress_records WHERE user_id = ? AND item_id = ?`
	rec, err := scanProgress(r.db.QueryRowContext(ctx, query, userID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("progress record %s/%s: %w", userID, itemID, ErrNotFound)
		}
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteProgressRepo) ListByUser(ctx context.Context, userID string) ([]domain.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + ` FROM progress_records WHERE user_id = ? ORDER BY created_at, item_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing progress records: %w", err)
	}
	defer rows.Close()

	var out []domain.ProgressRecord
	for rows.Next() {
		rec, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress records: %w", err)
	}
	return out, nil
}

func (r *SQLiteProgressRepo) Upsert(ctx context.Context, rec *domain.ProgressRecord) error {
	if rec.UserID == "" {
		return domain.ErrEmptyUserID
	}
	if rec.ItemID == "" {
		return domain.ErrEmptyItemID
	}
	query := `INSERT INTO progress_records (` + progressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, item_id) DO UPDATE SET
			status = excluded.status, label = excluded.label, handler_tag = excluded.handler_tag,
			origin_phase = excluded.origin_phase, origin_phase_number = excluded.origin_phase_number,
			origin_week = excluded.origin_week, carried_over = excluded.carried_over,
			category = excluded.category, completed_at = excluded.completed_at,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.ItemID,
		string(rec.Status),
		rec.Label,
		rec.HandlerTag,
		string(rec.OriginPhase.Kind),
		rec.OriginPhase.Number,
		rec.OriginWeek,
		boolToInt(rec.CarriedOver),
		string(rec.Category),
		nullableTime(rec.CompletedAt),
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting progress record %s: %w", rec.ItemID, err)
	}
	return nil
}

func (r *SQLiteProgressRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM progress_records WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting progress records: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*domain.ProgressRecord, error) {
	var rec domain.ProgressRecord
	var status, phase, category, createdAt, updatedAt string
	var carried int
	var completedAt sql.NullString
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.ItemID, &status, &rec.Label, &rec.HandlerTag, &phase,
		&rec.OriginPhase.Number, &rec.OriginWeek, &carried, &category, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning progress record: %w", err)
	}
	rec.Status = domain.ProgressStatus(status)
	rec.OriginPhase.Kind = domain.PhaseKind(phase)
	rec.CarriedOver = intToBool(carried)
	rec.Category = domain.Category(category)
	rec.CompletedAt = parseNullableTime(completedAt)
	if rec.CreatedAt, err = parseTime(createdAt, "progress created_at"); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt, "progress updated_at"); err != nil {
		return nil, err
	}
	return &rec, nil
}
