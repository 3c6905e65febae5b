package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"reactboard/core"
	dbtx "reactboard/db/tx"
	"reactboard/models"
)

type PostgresBackfillCheckpointsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for backfill_checkpoints table
var backfillCheckpointsColumns = []string{
	"id",
	"guild_id",
	"channel_id",
	"last_message_id",
	"status",
	"created_at",
	"updated_at",
}

func NewPostgresBackfillCheckpointsRepository(
	db *sqlx.DB,
	schema string,
) *PostgresBackfillCheckpointsRepository {
	return &PostgresBackfillCheckpointsRepository{db: db, schema: schema}
}

func (r *PostgresBackfillCheckpointsRepository) GetCheckpoint(
	ctx context.Context,
	guildID, channelID string,
) (mo.Option[*models.BackfillCheckpoint], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	returningStr := strings.Join(backfillCheckpointsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.backfill_checkpoints
		WHERE guild_id = $1 AND channel_id = $2`, returningStr, r.schema)

	checkpoint := &models.BackfillCheckpoint{}
	err := db.GetContext(ctx, checkpoint, query, guildID, channelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.BackfillCheckpoint](), nil
		}
		return mo.None[*models.BackfillCheckpoint](), fmt.Errorf("failed to get backfill checkpoint: %w", err)
	}

	return mo.Some(checkpoint), nil
}

// UpsertCheckpoint creates or advances the per-channel progress marker.
func (r *PostgresBackfillCheckpointsRepository) UpsertCheckpoint(
	ctx context.Context,
	guildID, channelID, lastMessageID string,
	status models.BackfillCheckpointStatus,
) (*models.BackfillCheckpoint, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	checkpointID := core.NewID("bc")

	returningStr := strings.Join(backfillCheckpointsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.backfill_checkpoints
			(id, guild_id, channel_id, last_message_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (guild_id, channel_id) DO UPDATE
		SET last_message_id = EXCLUDED.last_message_id,
		    status = EXCLUDED.status,
		    updated_at = NOW()
		RETURNING %s`, r.schema, returningStr)

	checkpoint := &models.BackfillCheckpoint{}
	err := db.QueryRowxContext(ctx, query, checkpointID, guildID, channelID, lastMessageID, string(status)).
		StructScan(checkpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert backfill checkpoint: %w", err)
	}

	return checkpoint, nil
}

func (r *PostgresBackfillCheckpointsRepository) GetCheckpointsByGuildID(
	ctx context.Context,
	guildID string,
) ([]*models.BackfillCheckpoint, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	returningStr := strings.Join(backfillCheckpointsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.backfill_checkpoints
		WHERE guild_id = $1
		ORDER BY channel_id`, returningStr, r.schema)

	checkpoints := []*models.BackfillCheckpoint{}
	if err := db.SelectContext(ctx, &checkpoints, query, guildID); err != nil {
		return nil, fmt.Errorf("failed to get backfill checkpoints by guild: %w", err)
	}

	return checkpoints, nil
}
