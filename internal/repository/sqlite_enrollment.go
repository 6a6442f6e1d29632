package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
)

type SQLiteEnrollmentRepo struct {
	db db.DBTX
}

func NewSQLiteEnrollmentRepo(conn db.DBTX) *SQLiteEnrollmentRepo {
	return &SQLiteEnrollmentRepo{db: conn}
}

const enrollmentColumns = `user_id, start_date, ascent_start, created_at, updated_at`

func (r *SQLiteEnrollmentRepo) Get(ctx context.Context, userID string) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = ?`
	e, err := scanEnrollment(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("enrollment %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (r *SQLiteEnrollmentRepo) List(ctx context.Context) ([]domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+enrollmentColumns+` FROM enrollments ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}
	defer rows.Close()

	var out []domain.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enrollments: %w", err)
	}
	return out, nil
}

func (r *SQLiteEnrollmentRepo) Upsert(ctx context.Context, e *domain.Enrollment) error {
	if err := e.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO enrollments (` + enrollmentColumns + `) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET start_date = excluded.start_date,
			ascent_start = excluded.ascent_start, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		e.UserID,
		formatTime(e.StartDate),
		nullableTime(e.AscentStart),
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting enrollment %s: %w", e.UserID, err)
	}
	return nil
}

func scanEnrollment(row rowScanner) (*domain.Enrollment, error) {
	var e domain.Enrollment
	var start, createdAt, updatedAt string
	var ascent sql.NullString
	if err := row.Scan(&e.UserID, &start, &ascent, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning enrollment: %w", err)
	}
	var err error
	if e.StartDate, err = parseTime(start, "start_date"); err != nil {
		return nil, err
	}
	e.AscentStart = parseNullableTime(ascent)
	if e.CreatedAt, err = parseTime(createdAt, "enrollment created_at"); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt, "enrollment updated_at"); err != nil {
		return nil, err
	}
	return &e, nil
}
