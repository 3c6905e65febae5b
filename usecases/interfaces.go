package usecases

import (
	"context"

	"reactboard/models"
)

// ReactionsUseCaseInterface defines the operations the event and command
// surfaces invoke on the core.
type ReactionsUseCaseInterface interface {
	ProcessReactionEvent(ctx context.Context, event models.PlatformReactionEvent) error
	TriggerBackfill(ctx context.Context, guildID string) error
}
