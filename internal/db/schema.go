package db

import (
	"context"
	"fmt"
)

var schemaDDL = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		type         TEXT NOT NULL,
		source_data  JSONB NOT NULL,
		file_content TEXT NOT NULL DEFAULT '',
		prompt       TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_user_created
		ON history (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		history_id UUID NOT NULL REFERENCES history(id) ON DELETE CASCADE,
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refinements (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		history_id  UUID NOT NULL REFERENCES history(id) ON DELETE CASCADE,
		user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		request     TEXT NOT NULL,
		before_data JSONB NOT NULL,
		after_data  JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// InitSchema creates the tables if they do not exist yet. Safe to run on
// every startup.
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaDDL {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
