package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the schema, tables and indexes if they do not exist.
// Ran once at startup before the event stream opens.
func EnsureSchema(ctx context.Context, db *sqlx.DB, schema string) error {
	statements := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.users (
				id TEXT PRIMARY KEY,
				display_name TEXT NOT NULL,
				discriminator TEXT NOT NULL DEFAULT '0',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.messages (
				id TEXT PRIMARY KEY,
				channel_id TEXT NOT NULL,
				guild_id TEXT NOT NULL,
				author_id TEXT NOT NULL REFERENCES %s.users(id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, schema, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.reaction_events (
				id BIGSERIAL PRIMARY KEY,
				reactor_user_id TEXT NOT NULL REFERENCES %s.users(id),
				message_id TEXT NOT NULL REFERENCES %s.messages(id),
				message_author_id TEXT NOT NULL REFERENCES %s.users(id),
				emoji_kind TEXT NOT NULL CHECK (emoji_kind IN ('unicode', 'custom')),
				emoji_name TEXT NOT NULL,
				emoji_custom_id TEXT,
				event_kind TEXT NOT NULL CHECK (event_kind IN ('add', 'remove')),
				guild_id TEXT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, schema, schema, schema, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.backfill_checkpoints (
				id TEXT PRIMARY KEY,
				guild_id TEXT NOT NULL,
				channel_id TEXT NOT NULL,
				last_message_id TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL CHECK (status IN ('in_progress', 'completed', 'failed')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (guild_id, channel_id)
			)`, schema),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS reaction_events_guild_idx
			ON %s.reaction_events (guild_id)`, schema),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS reaction_events_guild_reactor_idx
			ON %s.reaction_events (guild_id, reactor_user_id)`, schema),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS reaction_events_guild_author_idx
			ON %s.reaction_events (guild_id, message_author_id)`, schema),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS reaction_events_guild_message_idx
			ON %s.reaction_events (guild_id, message_id)`, schema),
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}
