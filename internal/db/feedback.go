package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateFeedback records a rating for a history item. The rating range is
// enforced by a CHECK constraint; ownership of the history item is the
// caller's concern.
func (db *DB) CreateFeedback(ctx context.Context, userID, historyID uuid.UUID, rating int, comment string) (*Feedback, error) {
	var fb Feedback
	err := db.pool.QueryRow(ctx,
		`INSERT INTO feedback (history_id, user_id, rating, comment)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, history_id, user_id, rating, comment, created_at`,
		historyID, userID, rating, comment,
	).Scan(&fb.ID, &fb.HistoryID, &fb.UserID, &fb.Rating, &fb.Comment, &fb.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return &fb, nil
}

// ListFeedback returns all feedback the user has left, newest-first
func (db *DB) ListFeedback(ctx context.Context, userID uuid.UUID) ([]Feedback, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, history_id, user_id, rating, comment, created_at
		 FROM feedback WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	items := []Feedback{}
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.HistoryID, &fb.UserID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		items = append(items, fb)
	}
	return items, rows.Err()
}
