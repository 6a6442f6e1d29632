package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
)

type SQLiteRegistrationRepo struct {
	db db.DBTX
}

func NewSQLiteRegistrationRepo(conn db.DBTX) *SQLiteRegistrationRepo {
	return &SQLiteRegistrationRepo{db: conn}
}

const registrationColumns = `id, user_id, session_id, item_id, session_title, session_type_id, kind,
	milestone, coach_name, starts_at, status, cancel_reason, certified_by, registered_at,
	attended_at, certified_at, cancelled_at, updated_at`

func (r *SQLiteRegistrationRepo) Create(ctx context.Context, reg *domain.SessionRegistration) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO session_registrations (` + registrationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		reg.ID,
		reg.UserID,
		reg.SessionID,
		reg.ItemID,
		reg.SessionTitle,
		reg.SessionTypeID,
		kindOrDefault(reg.Kind),
		reg.Milestone,
		reg.CoachName,
		nullableTime(reg.StartsAt),
		string(reg.Status),
		reg.CancelReason,
		reg.CertifiedBy,
		formatTime(reg.RegisteredAt),
		nullableTime(reg.AttendedAt),
		nullableTime(reg.CertifiedAt),
		nullableTime(reg.CancelledAt),
		formatTime(reg.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting registration: %w", err)
	}
	return nil
}

func (r *SQLiteRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.SessionRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM session_registrations WHERE id = ?`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("registration %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return reg, nil
}

func (r *SQLiteRegistrationRepo) ListByUser(ctx context.Context, userID string) ([]domain.SessionRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM session_registrations
		WHERE user_id = ? ORDER BY registered_at, id`
	return r.list(ctx, query, userID)
}

func (r *SQLiteRegistrationRepo) ListActiveByItem(ctx context.Context, userID, itemID string) ([]domain.SessionRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM session_registrations
		WHERE user_id = ? AND item_id = ? AND status != 'cancelled' ORDER BY registered_at, id`
	return r.list(ctx, query, userID, itemID)
}

func (r *SQLiteRegistrationRepo) list(ctx context.Context, query string, args ...any) ([]domain.SessionRegistration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionRegistration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registrations: %w", err)
	}
	return out, nil
}

func (r *SQLiteRegistrationRepo) Update(ctx context.Context, reg *domain.SessionRegistration) error {
	query := `UPDATE session_registrations SET
		session_title = ?, session_type_id = ?, kind = ?, milestone = ?, coach_name = ?, starts_at = ?,
		status = ?, cancel_reason = ?, certified_by = ?, attended_at = ?, certified_at = ?,
		cancelled_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		reg.SessionTitle,
		reg.SessionTypeID,
		kindOrDefault(reg.Kind),
		reg.Milestone,
		reg.CoachName,
		nullableTime(reg.StartsAt),
		string(reg.Status),
		reg.CancelReason,
		reg.CertifiedBy,
		nullableTime(reg.AttendedAt),
		nullableTime(reg.CertifiedAt),
		nullableTime(reg.CancelledAt),
		formatTime(reg.UpdatedAt),
		reg.ID,
	)
	if err != nil {
		return fmt.Errorf("updating registration %s: %w", reg.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("registration %s: %w", reg.ID, ErrNotFound)
	}
	return nil
}

func kindOrDefault(k domain.SessionKind) string {
	if k == "" {
		return string(domain.SessionCoaching)
	}
	return string(k)
}

func scanRegistration(row rowScanner) (*domain.SessionRegistration, error) {
	var reg domain.SessionRegistration
	var kind, status, registeredAt, updatedAt string
	var startsAt, attendedAt, certifiedAt, cancelledAt sql.NullString
	err := row.Scan(
		&reg.ID, &reg.UserID, &reg.SessionID, &reg.ItemID, &reg.SessionTitle, &reg.SessionTypeID, &kind,
		&reg.Milestone, &reg.CoachName, &startsAt, &status, &reg.CancelReason, &reg.CertifiedBy, &registeredAt,
		&attendedAt, &certifiedAt, &cancelledAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning registration: %w", err)
	}
	reg.Kind = domain.SessionKind(kind)
	reg.Status = domain.RegistrationStatus(status)
	reg.StartsAt = parseNullableTime(startsAt)
	reg.AttendedAt = parseNullableTime(attendedAt)
	reg.CertifiedAt = parseNullableTime(certifiedAt)
	reg.CancelledAt = parseNullableTime(cancelledAt)
	if reg.RegisteredAt, err = parseTime(registeredAt, "registered_at"); err != nil {
		return nil, err
	}
	if reg.UpdatedAt, err = parseTime(updatedAt, "registration updated_at"); err != nil {
		return nil, err
	}
	return &reg, nil
}
