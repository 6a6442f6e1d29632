package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
)

type SQLiteMilestoneRepo struct {
	db db.DBTX
}

func NewSQLiteMilestoneRepo(conn db.DBTX) *SQLiteMilestoneRepo {
	return &SQLiteMilestoneRepo{db: conn}
}

const milestoneColumns = `user_id, milestone, signed_off, signed_off_at, signed_off_by,
	certificate_viewed, certificate_viewed_at, updated_at`

func (r *SQLiteMilestoneRepo) Get(ctx context.Context, userID string, milestone int) (*domain.MilestoneProgress, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestone_progress WHERE user_id = ? AND milestone = ?`
	m, err := scanMilestone(r.db.QueryRowContext(ctx, query, userID, milestone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("milestone %d of %s: %w", milestone, userID, ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (r *SQLiteMilestoneRepo) ListByUser(ctx context.Context, userID string) ([]domain.MilestoneProgress, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestone_progress WHERE user_id = ? ORDER BY milestone`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing milestone progress: %w", err)
	}
	defer rows.Close()

	var out []domain.MilestoneProgress
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestone progress: %w", err)
	}
	return out, nil
}

func (r *SQLiteMilestoneRepo) Upsert(ctx context.Context, m *domain.MilestoneProgress) error {
	if m.UserID == "" {
		return domain.ErrEmptyUserID
	}
	if m.Milestone < 1 || m.Milestone > domain.MilestoneCount {
		return domain.ErrMilestoneRange
	}
	query := `INSERT INTO milestone_progress (` + milestoneColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, milestone) DO UPDATE SET
			signed_off = excluded.signed_off, signed_off_at = excluded.signed_off_at,
			signed_off_by = excluded.signed_off_by, certificate_viewed = excluded.certificate_viewed,
			certificate_viewed_at = excluded.certificate_viewed_at, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		m.UserID,
		m.Milestone,
		boolToInt(m.SignedOff),
		nullableTime(m.SignedOffAt),
		m.SignedOffBy,
		boolToInt(m.CertificateViewed),
		nullableTime(m.CertificateViewedAt),
		formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting milestone %d: %w", m.Milestone, err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM milestone_progress WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting milestone progress: %w", err)
	}
	return nil
}

func scanMilestone(row rowScanner) (*domain.MilestoneProgress, error) {
	var m domain.MilestoneProgress
	var signed, viewed int
	var signedAt, viewedAt sql.NullString
	var updatedAt string
	err := row.Scan(&m.UserID, &m.Milestone, &signed, &signedAt, &m.SignedOffBy, &viewed, &viewedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning milestone progress: %w", err)
	}
	m.SignedOff = intToBool(signed)
	m.SignedOffAt = parseNullableTime(signedAt)
	m.CertificateViewed = intToBool(viewed)
	m.CertificateViewedAt = parseNullableTime(viewedAt)
	if m.UpdatedAt, err = parseTime(updatedAt, "milestone updated_at"); err != nil {
		return nil, err
	}
	return &m, nil
}
