package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "reactboard/db/tx"
	"reactboard/models"
)

type PostgresMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for messages table
var messagesColumns = []string{
	"id",
	"channel_id",
	"guild_id",
	"author_id",
	"created_at",
}

func NewPostgresMessagesRepository(db *sqlx.DB, schema string) *PostgresMessagesRepository {
	return &PostgresMessagesRepository{db: db, schema: schema}
}

// UpsertMessage inserts the message if unseen. First write wins: channel,
// guild and author are immutable once the row exists, so conflicts are no-ops.
func (r *PostgresMessagesRepository) UpsertMessage(
	ctx context.Context,
	id, channelID, guildID, authorID string,
) (*models.Message, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.messages (id, channel_id, guild_id, author_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO NOTHING`, r.schema)

	_, err := db.ExecContext(ctx, query, id, channelID, guildID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert message: %w", err)
	}

	// Read back the stored row: on conflict the existing (immutable) row wins,
	// which may differ from the arguments.
	returningStr := strings.Join(messagesColumns, ", ")
	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s.messages
		WHERE id = $1`, returningStr, r.schema)

	message := &models.Message{}
	if err := db.GetContext(ctx, message, selectQuery, id); err != nil {
		return nil, fmt.Errorf("failed to read back upserted message: %w", err)
	}

	return message, nil
}

func (r *PostgresMessagesRepository) GetMessageByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Message], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	returningStr := strings.Join(messagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.messages
		WHERE id = $1`, returningStr, r.schema)

	message := &models.Message{}
	err := db.GetContext(ctx, message, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Message](), nil
		}
		return mo.None[*models.Message](), fmt.Errorf("failed to get message by ID: %w", err)
	}

	return mo.Some(message), nil
}
