package leaderboard

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"reactboard/db"
	"reactboard/models"
)

// LeaderboardService answers the read-side aggregate queries. It never writes:
// every result is a fold over the append-only ledger, net count descending,
// ties broken by earliest event, capped at the top 10.
type LeaderboardService struct {
	eventsRepo *db.PostgresReactionEventsRepository
	limit      int
}

func NewLeaderboardService(eventsRepo *db.PostgresReactionEventsRepository) *LeaderboardService {
	return &LeaderboardService{
		eventsRepo: eventsRepo,
		limit:      models.DefaultLeaderboardLimit,
	}
}

// TopReceivers returns the guild's users ranked by net reactions received.
func (s *LeaderboardService) TopReceivers(
	ctx context.Context,
	guildID string,
) ([]*models.UserNetCount, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}

	rows, err := s.eventsRepo.TopReceiversByGuild(ctx, guildID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top receivers: %w", err)
	}
	return rows, nil
}

// TopReceiversByEmoji returns the guild's users ranked by net count of one
// specific reaction received.
func (s *LeaderboardService) TopReceiversByEmoji(
	ctx context.Context,
	guildID string,
	emoji models.Emoji,
) ([]*models.UserNetCount, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if emoji.Name == "" {
		return nil, fmt.Errorf("emoji cannot be empty")
	}

	rows, err := s.eventsRepo.TopReceiversByEmoji(ctx, guildID, emoji, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top receivers by emoji: %w", err)
	}
	return rows, nil
}

// TopEmojis returns the guild's most used reactions by net count.
func (s *LeaderboardService) TopEmojis(
	ctx context.Context,
	guildID string,
) ([]*models.EmojiNetCount, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}

	rows, err := s.eventsRepo.TopEmojisByGuild(ctx, guildID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top emojis: %w", err)
	}
	return rows, nil
}

// TopEmojisSentByUser returns the reactions one user sends the most.
func (s *LeaderboardService) TopEmojisSentByUser(
	ctx context.Context,
	guildID, reactorUserID string,
) ([]*models.EmojiNetCount, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if reactorUserID == "" {
		return nil, fmt.Errorf("reactor_user_id cannot be empty")
	}

	rows, err := s.eventsRepo.TopEmojisByReactor(ctx, guildID, reactorUserID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top emojis sent by user: %w", err)
	}
	return rows, nil
}

// TopEmojisReceivedByUser returns the reactions one user receives the most.
func (s *LeaderboardService) TopEmojisReceivedByUser(
	ctx context.Context,
	guildID, authorUserID string,
) ([]*models.EmojiNetCount, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if authorUserID == "" {
		return nil, fmt.Errorf("author_user_id cannot be empty")
	}

	rows, err := s.eventsRepo.TopEmojisByReceiver(ctx, guildID, authorUserID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top emojis received by user: %w", err)
	}
	return rows, nil
}

// TopMessages returns the guild's messages ranked by net reaction count,
// optionally filtered to one emoji.
func (s *LeaderboardService) TopMessages(
	ctx context.Context,
	guildID string,
	maybeEmoji mo.Option[models.Emoji],
) ([]*models.MessageNetCount, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}

	rows, err := s.eventsRepo.TopMessages(ctx, guildID, maybeEmoji, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top messages: %w", err)
	}
	return rows, nil
}
