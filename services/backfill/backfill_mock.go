package backfill

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockBackfillService struct {
	mock.Mock
}

func (m *MockBackfillService) BackfillGuild(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}
