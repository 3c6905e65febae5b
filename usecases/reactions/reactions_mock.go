package reactions

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reactboard/models"
)

type MockReactionsUseCase struct {
	mock.Mock
}

func (m *MockReactionsUseCase) ProcessReactionEvent(
	ctx context.Context,
	event models.PlatformReactionEvent,
) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockReactionsUseCase) TriggerBackfill(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}
