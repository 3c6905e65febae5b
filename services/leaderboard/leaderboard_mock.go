package leaderboard

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"reactboard/models"
)

type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) TopReceivers(
	ctx context.Context,
	guildID string,
) ([]*models.UserNetCount, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserNetCount), args.Error(1)
}

func (m *MockLeaderboardService) TopReceiversByEmoji(
	ctx context.Context,
	guildID string,
	emoji models.Emoji,
) ([]*models.UserNetCount, error) {
	args := m.Called(ctx, guildID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserNetCount), args.Error(1)
}

func (m *MockLeaderboardService) TopEmojis(
	ctx context.Context,
	guildID string,
) ([]*models.EmojiNetCount, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmojiNetCount), args.Error(1)
}

func (m *MockLeaderboardService) TopEmojisSentByUser(
	ctx context.Context,
	guildID, reactorUserID string,
) ([]*models.EmojiNetCount, error) {
	args := m.Called(ctx, guildID, reactorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmojiNetCount), args.Error(1)
}

func (m *MockLeaderboardService) TopEmojisReceivedByUser(
	ctx context.Context,
	guildID, authorUserID string,
) ([]*models.EmojiNetCount, error) {
	args := m.Called(ctx, guildID, authorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmojiNetCount), args.Error(1)
}

func (m *MockLeaderboardService) TopMessages(
	ctx context.Context,
	guildID string,
	maybeEmoji mo.Option[models.Emoji],
) ([]*models.MessageNetCount, error) {
	args := m.Called(ctx, guildID, maybeEmoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MessageNetCount), args.Error(1)
}
