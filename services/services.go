package services

import (
	"context"

	"github.com/samber/mo"

	"reactboard/models"
)

// LedgerService defines the interface for the ingestion side of the reaction
// ledger.
type LedgerService interface {
	// RecordReaction validates and appends one reaction event. Events with
	// unresolvable identities or no guild context are dropped with a log
	// line, not an error; store failures propagate.
	RecordReaction(ctx context.Context, input models.ReactionInput) error
	// HasAddEvent reports whether an add event already exists for the
	// (guild, reactor, message, emoji) tuple.
	HasAddEvent(ctx context.Context, guildID, reactorUserID, messageID string, emoji models.Emoji) (bool, error)
}

// LeaderboardService defines the interface for the read-side aggregation
// queries. Every query is scoped to one guild and returns at most the top 10
// rows by net count; an empty slice means no data, never an error.
type LeaderboardService interface {
	TopReceivers(ctx context.Context, guildID string) ([]*models.UserNetCount, error)
	TopReceiversByEmoji(ctx context.Context, guildID string, emoji models.Emoji) ([]*models.UserNetCount, error)
	TopEmojis(ctx context.Context, guildID string) ([]*models.EmojiNetCount, error)
	TopEmojisSentByUser(ctx context.Context, guildID, reactorUserID string) ([]*models.EmojiNetCount, error)
	TopEmojisReceivedByUser(ctx context.Context, guildID, authorUserID string) ([]*models.EmojiNetCount, error)
	TopMessages(
		ctx context.Context,
		guildID string,
		maybeEmoji mo.Option[models.Emoji],
	) ([]*models.MessageNetCount, error)
}

// BackfillService defines the interface for the history reconciliation pass.
type BackfillService interface {
	// BackfillGuild walks the guild's channel history and records every
	// currently-visible reaction that the ledger does not hold yet. A
	// failing channel is logged and skipped; cancellation aborts the walk.
	BackfillGuild(ctx context.Context, guildID string) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
	BeginTransaction(ctx context.Context) (context.Context, error)
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
}
