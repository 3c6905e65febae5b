package reactions

import (
	"context"
	"fmt"
	"log"

	"reactboard/models"
	"reactboard/services"
)

// ReactionsUseCase orchestrates the two write paths of the system: live
// reaction notifications from the gateway and on-demand backfill runs. Both
// end up in the same ledger through the same record operation.
type ReactionsUseCase struct {
	ledgerService   services.LedgerService
	backfillService services.BackfillService
}

func NewReactionsUseCase(
	ledgerService services.LedgerService,
	backfillService services.BackfillService,
) *ReactionsUseCase {
	return &ReactionsUseCase{
		ledgerService:   ledgerService,
		backfillService: backfillService,
	}
}

// ProcessReactionEvent records one live reaction notification.
func (u *ReactionsUseCase) ProcessReactionEvent(
	ctx context.Context,
	event models.PlatformReactionEvent,
) error {
	log.Printf("📋 Starting to process %s reaction %s by user %s in guild %s",
		event.Kind, event.Emoji.String(), event.Reactor.ID, event.GuildID)

	input := models.ReactionInput{
		Reactor: event.Reactor,
		Author:  event.Author,
		Message: models.MessageRef{
			ID:        event.MessageID,
			ChannelID: event.ChannelID,
			GuildID:   event.GuildID,
		},
		Emoji: event.Emoji,
		Kind:  event.Kind,
	}

	if err := u.ledgerService.RecordReaction(ctx, input); err != nil {
		return fmt.Errorf("failed to process reaction event: %w", err)
	}

	return nil
}

// TriggerBackfill runs history reconciliation for one guild.
func (u *ReactionsUseCase) TriggerBackfill(ctx context.Context, guildID string) error {
	log.Printf("📋 Starting backfill trigger for guild %s", guildID)

	if err := u.backfillService.BackfillGuild(ctx, guildID); err != nil {
		return fmt.Errorf("failed to backfill guild: %w", err)
	}

	log.Printf("📋 Completed backfill trigger for guild %s", guildID)
	return nil
}
