package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HistoryInput is the payload for saving a generated document.
type HistoryInput struct {
	UserID      uuid.UUID
	Title       string
	Type        string
	SourceData  json.RawMessage
	FileContent string
	Prompt      string
}

// SaveHistoryItem stores a generated document and returns the full record
func (db *DB) SaveHistoryItem(ctx context.Context, input HistoryInput) (*HistoryItem, error) {
	var item HistoryItem
	err := db.pool.QueryRow(ctx,
		`INSERT INTO history (user_id, title, type, source_data, file_content, prompt)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, title, type, source_data, file_content, prompt, created_at`,
		input.UserID, input.Title, input.Type, input.SourceData, input.FileContent, input.Prompt,
	).Scan(&item.ID, &item.UserID, &item.Title, &item.Type, &item.SourceData,
		&item.FileContent, &item.Prompt, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save history item: %w", err)
	}
	return &item, nil
}

// ListHistory returns the user's history newest-first, without file
// payloads. An empty itemType returns every type.
func (db *DB) ListHistory(ctx context.Context, userID uuid.UUID, itemType string) ([]HistorySummary, error) {
	query := `SELECT id, title, type, prompt, created_at
		 FROM history WHERE user_id = $1`
	args := []any{userID}
	if itemType != "" {
		query += ` AND type = $2`
		args = append(args, itemType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	items := []HistorySummary{}
	for rows.Next() {
		var item HistorySummary
		if err := rows.Scan(&item.ID, &item.Title, &item.Type, &item.Prompt, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetHistoryItem retrieves one history item owned by the user, or nil when
// the item does not exist or belongs to someone else
func (db *DB) GetHistoryItem(ctx context.Context, userID, itemID uuid.UUID) (*HistoryItem, error) {
	var item HistoryItem
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, type, source_data, file_content, prompt, created_at
		 FROM history WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	).Scan(&item.ID, &item.UserID, &item.Title, &item.Type, &item.SourceData,
		&item.FileContent, &item.Prompt, &item.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get history item: %w", err)
	}
	return &item, nil
}

// UpdateHistoryContent replaces a history item's source data and rendered
// file after a refinement pass
func (db *DB) UpdateHistoryContent(ctx context.Context, itemID uuid.UUID, sourceData json.RawMessage, fileContent string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE history SET source_data = $1, file_content = $2 WHERE id = $3`,
		sourceData, fileContent, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update history item: %w", err)
	}
	return nil
}
