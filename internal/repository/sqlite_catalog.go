package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
)

type SQLiteCatalogRepo struct {
	db db.DBTX
}

func NewSQLiteCatalogRepo(conn db.DBTX) *SQLiteCatalogRepo {
	return &SQLiteCatalogRepo{db: conn}
}

func (r *SQLiteCatalogRepo) UpsertResource(ctx context.Context, res *domain.ResourceMetadata) error {
	query := `INSERT INTO resources (id, type, title, duration_minutes) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET type = excluded.type, title = excluded.title,
			duration_minutes = excluded.duration_minutes`
	if _, err := r.db.ExecContext(ctx, query, res.ID, res.Type, res.Title, res.DurationMinutes); err != nil {
		return fmt.Errorf("upserting resource %s: %w", res.ID, err)
	}
	return nil
}

func (r *SQLiteCatalogRepo) GetResource(ctx context.Context, id string) (*domain.ResourceMetadata, error) {
	var res domain.ResourceMetadata
	err := r.db.QueryRowContext(ctx,
		`SELECT id, type, title, duration_minutes FROM resources WHERE id = ?`, id,
	).Scan(&res.ID, &res.Type, &res.Title, &res.DurationMinutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resource %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning resource: %w", err)
	}
	return &res, nil
}

func (r *SQLiteCatalogRepo) ListResources(ctx context.Context) ([]domain.ResourceMetadata, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type, title, duration_minutes FROM resources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var out []domain.ResourceMetadata
	for rows.Next() {
		var res domain.ResourceMetadata
		if err := rows.Scan(&res.ID, &res.Type, &res.Title, &res.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scanning resource row: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resources: %w", err)
	}
	return out, nil
}

func (r *SQLiteCatalogRepo) UpsertSessionType(ctx context.Context, st *domain.SessionType) error {
	query := `INSERT INTO session_types (id, kind, title) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET kind = excluded.kind, title = excluded.title`
	if _, err := r.db.ExecContext(ctx, query, st.ID, string(st.Kind), st.Title); err != nil {
		return fmt.Errorf("upserting session type %s: %w", st.ID, err)
	}
	return nil
}

func (r *SQLiteCatalogRepo) ListSessionTypes(ctx context.Context) ([]domain.SessionType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, kind, title FROM session_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing session types: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionType
	for rows.Next() {
		var st domain.SessionType
		var kind string
		if err := rows.Scan(&st.ID, &kind, &st.Title); err != nil {
			return nil, fmt.Errorf("scanning session type row: %w", err)
		}
		st.Kind = domain.SessionKind(kind)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session types: %w", err)
	}
	return out, nil
}
