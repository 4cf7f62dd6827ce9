package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SaveRefinement records one review pass over a history item
func (db *DB) SaveRefinement(ctx context.Context, userID, historyID uuid.UUID, request string, before, after json.RawMessage) (*Refinement, error) {
	var r Refinement
	err := db.pool.QueryRow(ctx,
		`INSERT INTO refinements (history_id, user_id, request, before_data, after_data)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, history_id, user_id, request, before_data, after_data, created_at`,
		historyID, userID, request, before, after,
	).Scan(&r.ID, &r.HistoryID, &r.UserID, &r.Request, &r.Before, &r.After, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save refinement: %w", err)
	}
	return &r, nil
}

// ListRefinements returns the refinement trail for one history item,
// oldest-first so the sequence reads as applied
func (db *DB) ListRefinements(ctx context.Context, userID, historyID uuid.UUID) ([]Refinement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, history_id, user_id, request, before_data, after_data, created_at
		 FROM refinements WHERE history_id = $1 AND user_id = $2
		 ORDER BY created_at ASC`,
		historyID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list refinements: %w", err)
	}
	defer rows.Close()

	items := []Refinement{}
	for rows.Next() {
		var r Refinement
		if err := rows.Scan(&r.ID, &r.HistoryID, &r.UserID, &r.Request, &r.Before, &r.After, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan refinement row: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
