package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	dbtx "reactboard/db/tx"
	"reactboard/models"
)

type PostgresReactionEventsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for reaction_events table
var reactionEventsColumns = []string{
	"id",
	"reactor_user_id",
	"message_id",
	"message_author_id",
	"emoji_kind",
	"emoji_name",
	"emoji_custom_id",
	"event_kind",
	"guild_id",
	"recorded_at",
}

// netCountExpr is the fold every leaderboard query is built on: adds count +1,
// removes count -1.
const netCountExpr = "SUM(CASE WHEN event_kind = 'add' THEN 1 ELSE -1 END)"

func NewPostgresReactionEventsRepository(
	db *sqlx.DB,
	schema string,
) *PostgresReactionEventsRepository {
	return &PostgresReactionEventsRepository{db: db, schema: schema}
}

// InsertReactionEvent appends one event row to the ledger. The ledger is
// append-only: no method on this repository updates or deletes event rows.
func (r *PostgresReactionEventsRepository) InsertReactionEvent(
	ctx context.Context,
	event *models.ReactionEvent,
) (*models.ReactionEvent, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	returningStr := strings.Join(reactionEventsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.reaction_events
			(reactor_user_id, message_id, message_author_id, emoji_kind, emoji_name,
			 emoji_custom_id, event_kind, guild_id, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING %s`, r.schema, returningStr)

	inserted := &models.ReactionEvent{}
	err := db.QueryRowxContext(
		ctx,
		query,
		event.ReactorUserID,
		event.MessageID,
		event.MessageAuthorID,
		string(event.EmojiKind),
		event.EmojiName,
		event.EmojiCustomID,
		string(event.EventKind),
		event.GuildID,
	).StructScan(inserted)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" { // foreign key violation
				return nil, fmt.Errorf("reaction event references missing user or message: %w", err)
			}
		}
		return nil, fmt.Errorf("failed to insert reaction event: %w", err)
	}

	return inserted, nil
}

// HasAddEvent reports whether the ledger already holds an add event for the
// (guild, reactor, message, emoji) tuple. Used by backfill to stay idempotent.
func (r *PostgresReactionEventsRepository) HasAddEvent(
	ctx context.Context,
	guildID, reactorUserID, messageID string,
	emoji models.Emoji,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s.reaction_events
			WHERE guild_id = $1
			  AND reactor_user_id = $2
			  AND message_id = $3
			  AND event_kind = 'add'
			  AND %s
		)`, r.schema, emojiPredicate(4))

	args := append([]interface{}{guildID, reactorUserID, messageID}, emojiArgs(emoji)...)

	var exists bool
	if err := db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("failed to check for existing add event: %w", err)
	}

	return exists, nil
}

// TopReceiversByGuild returns the users with the highest net count of
// reactions received across the guild.
func (r *PostgresReactionEventsRepository) TopReceiversByGuild(
	ctx context.Context,
	guildID string,
	limit int,
) ([]*models.UserNetCount, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT u.id AS user_id, u.display_name, u.discriminator,
		       %s AS net_count
		FROM %s.reaction_events re
		JOIN %s.users u ON re.message_author_id = u.id
		WHERE re.guild_id = $1
		GROUP BY u.id, u.display_name, u.discriminator
		ORDER BY net_count DESC, MIN(re.id) ASC
		LIMIT $2`, netCountExpr, r.schema, r.schema)

	rows := []*models.UserNetCount{}
	if err := db.SelectContext(ctx, &rows, query, guildID, limit); err != nil {
		return nil, fmt.Errorf("failed to query top receivers by guild: %w", err)
	}

	return rows, nil
}

// TopReceiversByEmoji returns the users with the highest net count of one
// specific reaction received.
func (r *PostgresReactionEventsRepository) TopReceiversByEmoji(
	ctx context.Context,
	guildID string,
	emoji models.Emoji,
	limit int,
) ([]*models.UserNetCount, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT u.id AS user_id, u.display_name, u.discriminator,
		       %s AS net_count
		FROM %s.reaction_events re
		JOIN %s.users u ON re.message_author_id = u.id
		WHERE re.guild_id = $1 AND %s
		GROUP BY u.id, u.display_name, u.discriminator
		ORDER BY net_count DESC, MIN(re.id) ASC
		LIMIT $%d`, netCountExpr, r.schema, r.schema, emojiPredicateQualified("re", 2), 2+len(emojiArgs(emoji)))

	args := append([]interface{}{guildID}, emojiArgs(emoji)...)
	args = append(args, limit)

	rows := []*models.UserNetCount{}
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query top receivers by emoji: %w", err)
	}

	return rows, nil
}

// TopEmojisByGuild returns the guild's most used reactions by net count.
func (r *PostgresReactionEventsRepository) TopEmojisByGuild(
	ctx context.Context,
	guildID string,
	limit int,
) ([]*models.EmojiNetCount, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT emoji_kind, emoji_name, emoji_custom_id,
		       %s AS net_count
		FROM %s.reaction_events
		WHERE guild_id = $1
		GROUP BY emoji_kind, emoji_name, emoji_custom_id
		ORDER BY net_count DESC, MIN(id) ASC
		LIMIT $2`, netCountExpr, r.schema)

	rows := []*models.EmojiNetCount{}
	if err := db.SelectContext(ctx, &rows, query, guildID, limit); err != nil {
		return nil, fmt.Errorf("failed to query top emojis by guild: %w", err)
	}

	return rows, nil
}

// TopEmojisByReactor returns the reactions one user has sent the most,
// by net count.
func (r *PostgresReactionEventsRepository) TopEmojisByReactor(
	ctx context.Context,
	guildID, reactorUserID string,
	limit int,
) ([]*models.EmojiNetCount, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT emoji_kind, emoji_name, emoji_custom_id,
		       %s AS net_count
		FROM %s.reaction_events
		WHERE guild_id = $1 AND reactor_user_id = $2
		GROUP BY emoji_kind, emoji_name, emoji_custom_id
		ORDER BY net_count DESC, MIN(id) ASC
		LIMIT $3`, netCountExpr, r.schema)

	rows := []*models.EmojiNetCount{}
	if err := db.SelectContext(ctx, &rows, query, guildID, reactorUserID, limit); err != nil {
		return nil, fmt.Errorf("failed to query top emojis by reactor: %w", err)
	}

	return rows, nil
}

// TopEmojisByReceiver returns the reactions one user has received the most,
// by net count.
func (r *PostgresReactionEventsRepository) TopEmojisByReceiver(
	ctx context.Context,
	guildID, authorUserID string,
	limit int,
) ([]*models.EmojiNetCount, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT emoji_kind, emoji_name, emoji_custom_id,
		       %s AS net_count
		FROM %s.reaction_events
		WHERE guild_id = $1 AND message_author_id = $2
		GROUP BY emoji_kind, emoji_name, emoji_custom_id
		ORDER BY net_count DESC, MIN(id) ASC
		LIMIT $3`, netCountExpr, r.schema)

	rows := []*models.EmojiNetCount{}
	if err := db.SelectContext(ctx, &rows, query, guildID, authorUserID, limit); err != nil {
		return nil, fmt.Errorf("failed to query top emojis by receiver: %w", err)
	}

	return rows, nil
}

// TopMessages returns the messages with the highest net reaction count,
// optionally filtered to one emoji.
func (r *PostgresReactionEventsRepository) TopMessages(
	ctx context.Context,
	guildID string,
	maybeEmoji mo.Option[models.Emoji],
	limit int,
) ([]*models.MessageNetCount, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	emojiClause := ""
	args := []interface{}{guildID}
	limitPlaceholder := 2
	if emoji, ok := maybeEmoji.Get(); ok {
		emojiClause = " AND " + emojiPredicateQualified("re", 2)
		args = append(args, emojiArgs(emoji)...)
		limitPlaceholder = 2 + len(emojiArgs(emoji))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT m.id AS message_id, m.channel_id, m.author_id,
		       u.display_name, u.discriminator,
		       %s AS net_count
		FROM %s.reaction_events re
		JOIN %s.messages m ON re.message_id = m.id
		JOIN %s.users u ON m.author_id = u.id
		WHERE re.guild_id = $1%s
		GROUP BY m.id, m.channel_id, m.author_id, u.display_name, u.discriminator
		ORDER BY net_count DESC, MIN(re.id) ASC
		LIMIT $%d`, netCountExpr, r.schema, r.schema, r.schema, emojiClause, limitPlaceholder)

	rows := []*models.MessageNetCount{}
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query top messages: %w", err)
	}

	return rows, nil
}

// emojiPredicate builds a WHERE fragment matching the full emoji union,
// starting at the given placeholder index. Pairs with emojiArgs.
func emojiPredicate(firstPlaceholder int) string {
	return fmt.Sprintf(
		"emoji_kind = $%d AND emoji_name = $%d AND COALESCE(emoji_custom_id, '') = $%d",
		firstPlaceholder, firstPlaceholder+1, firstPlaceholder+2)
}

// emojiPredicateQualified is emojiPredicate with a table alias prefix.
func emojiPredicateQualified(alias string, firstPlaceholder int) string {
	return fmt.Sprintf(
		"%s.emoji_kind = $%d AND %s.emoji_name = $%d AND COALESCE(%s.emoji_custom_id, '') = $%d",
		alias, firstPlaceholder, alias, firstPlaceholder+1, alias, firstPlaceholder+2)
}

// emojiArgs supplies the three bind values emojiPredicate expects.
func emojiArgs(emoji models.Emoji) []interface{} {
	return []interface{}{string(emoji.Kind), emoji.Name, emoji.CustomID}
}
