package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reactboard/clients"
)

type MockChatGatewayClient struct {
	mock.Mock
}

func (m *MockChatGatewayClient) GetBotUser() (*clients.GatewayUser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.GatewayUser), args.Error(1)
}

func (m *MockChatGatewayClient) ListTextChannels(
	ctx context.Context,
	guildID string,
) ([]clients.GatewayChannel, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.GatewayChannel), args.Error(1)
}

func (m *MockChatGatewayClient) GetMessagesPage(
	ctx context.Context,
	channelID, afterMessageID string,
	limit int,
) ([]clients.GatewayMessage, error) {
	args := m.Called(ctx, channelID, afterMessageID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.GatewayMessage), args.Error(1)
}

func (m *MockChatGatewayClient) GetReactionUsers(
	ctx context.Context,
	channelID, messageID, emojiAPIName, afterUserID string,
	limit int,
) ([]clients.GatewayUser, error) {
	args := m.Called(ctx, channelID, messageID, emojiAPIName, afterUserID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.GatewayUser), args.Error(1)
}
