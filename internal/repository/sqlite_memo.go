package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/db"
)

// SQLiteCarryOverMemoRepo persists the surfaced carry-over ids per view
// session, in display order.
type SQLiteCarryOverMemoRepo struct {
	db db.DBTX
}

func NewSQLiteCarryOverMemoRepo(conn db.DBTX) *SQLiteCarryOverMemoRepo {
	return &SQLiteCarryOverMemoRepo{db: conn}
}

func (r *SQLiteCarryOverMemoRepo) Get(ctx context.Context, userID, sessionID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id FROM carry_over_memos WHERE user_id = ? AND session_id = ? ORDER BY position`,
		userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reading carry-over memo: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning carry-over memo: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating carry-over memo: %w", err)
	}
	return ids, nil
}

func (r *SQLiteCarryOverMemoRepo) Replace(ctx context.Context, userID, sessionID string, itemIDs []string) error {
	if err := r.Clear(ctx, userID, sessionID); err != nil {
		return err
	}
	seen := make(map[string]bool, len(itemIDs))
	pos := 0
	for _, id := range itemIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO carry_over_memos (user_id, session_id, item_id, position) VALUES (?, ?, ?, ?)`,
			userID, sessionID, id, pos)
		if err != nil {
			return fmt.Errorf("writing carry-over memo: %w", err)
		}
		pos++
	}
	return nil
}

func (r *SQLiteCarryOverMemoRepo) Clear(ctx context.Context, userID, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carry_over_memos WHERE user_id = ? AND session_id = ?`, userID, sessionID)
	if err != nil {
		return fmt.Errorf("clearing carry-over memo: %w", err)
	}
	return nil
}

func (r *SQLiteCarryOverMemoRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carry_over_memos WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting carry-over memos: %w", err)
	}
	return nil
}
