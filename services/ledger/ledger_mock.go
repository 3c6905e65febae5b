package ledger

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reactboard/models"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordReaction(ctx context.Context, input models.ReactionInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockLedgerService) HasAddEvent(
	ctx context.Context,
	guildID, reactorUserID, messageID string,
	emoji models.Emoji,
) (bool, error) {
	args := m.Called(ctx, guildID, reactorUserID, messageID, emoji)
	return args.Bool(0), args.Error(1)
}
