package backfill

import (
	"context"
	"errors"
	"fmt"
	"log"

	"reactboard/clients"
	"reactboard/db"
	"reactboard/models"
	"reactboard/services"
)

// BackfillService reconstructs historical reaction events from the platform's
// currently-visible state. It walks every text channel oldest-first, records an
// add event for each reaction the ledger does not hold yet, and checkpoints
// per-channel progress so a restart resumes instead of rewinding.
type BackfillService struct {
	gateway         clients.ChatGatewayClient
	ledgerService   services.LedgerService
	checkpointsRepo *db.PostgresBackfillCheckpointsRepository
	pageSize        int
}

func NewBackfillService(
	gateway clients.ChatGatewayClient,
	ledgerService services.LedgerService,
	checkpointsRepo *db.PostgresBackfillCheckpointsRepository,
	pageSize int,
) *BackfillService {
	return &BackfillService{
		gateway:         gateway,
		ledgerService:   ledgerService,
		checkpointsRepo: checkpointsRepo,
		pageSize:        pageSize,
	}
}

// BackfillGuild reconciles one guild. A channel that fails (revoked access,
// rate limiting) is logged and skipped; events recorded from earlier channels
// stay intact. Cancelling the context aborts the current channel's walk.
func (s *BackfillService) BackfillGuild(ctx context.Context, guildID string) error {
	if guildID == "" {
		return fmt.Errorf("guild_id cannot be empty")
	}

	log.Printf("🔄 Starting backfill for guild %s", guildID)

	botUser, err := s.gateway.GetBotUser()
	if err != nil {
		return fmt.Errorf("failed to get bot user: %w", err)
	}

	channels, err := s.gateway.ListTextChannels(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to list text channels: %w", err)
	}

	failedChannels := 0
	for _, channel := range channels {
		if err := ctx.Err(); err != nil {
			log.Printf("🛑 Backfill for guild %s cancelled", guildID)
			return err
		}

		if err := s.backfillChannel(ctx, guildID, channel, botUser.ID); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Printf("🛑 Backfill for guild %s cancelled during channel %s", guildID, channel.ID)
				return err
			}
			// One broken channel must not abort the rest of the guild.
			log.Printf("❌ Backfill failed for channel %s (%s) in guild %s: %v - continuing with next channel",
				channel.ID, channel.Name, guildID, err)
			failedChannels++
			continue
		}
	}

	log.Printf("✅ Backfill completed for guild %s: %d channels walked, %d failed",
		guildID, len(channels)-failedChannels, failedChannels)
	return nil
}

func (s *BackfillService) backfillChannel(
	ctx context.Context,
	guildID string,
	channel clients.GatewayChannel,
	botUserID string,
) error {
	afterMessageID := ""
	maybeCheckpoint, err := s.checkpointsRepo.GetCheckpoint(ctx, guildID, channel.ID)
	if err != nil {
		return err
	}
	if checkpoint, ok := maybeCheckpoint.Get(); ok {
		// Resume after the last fully processed message regardless of the
		// previous run's outcome; dedup makes re-walking the tail harmless.
		afterMessageID = checkpoint.LastMessageID
		log.Printf("🔄 Resuming backfill of channel %s after message %q", channel.ID, afterMessageID)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.gateway.GetMessagesPage(ctx, channel.ID, afterMessageID, s.pageSize)
		if err != nil {
			s.markCheckpointFailed(ctx, guildID, channel.ID, afterMessageID)
			return fmt.Errorf("failed to fetch history page: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, message := range page {
			if err := s.backfillMessage(ctx, guildID, message, botUserID); err != nil {
				s.markCheckpointFailed(ctx, guildID, channel.ID, afterMessageID)
				return err
			}
		}

		afterMessageID = page[len(page)-1].ID
		if _, err := s.checkpointsRepo.UpsertCheckpoint(
			ctx, guildID, channel.ID, afterMessageID, models.BackfillCheckpointStatusInProgress,
		); err != nil {
			return err
		}

		if len(page) < s.pageSize {
			break
		}
	}

	if _, err := s.checkpointsRepo.UpsertCheckpoint(
		ctx, guildID, channel.ID, afterMessageID, models.BackfillCheckpointStatusCompleted,
	); err != nil {
		return err
	}

	log.Printf("✅ Finished backfilling channel %s (%s)", channel.ID, channel.Name)
	return nil
}

func (s *BackfillService) backfillMessage(
	ctx context.Context,
	guildID string,
	message clients.GatewayMessage,
	botUserID string,
) error {
	// A bot never receives a counted reaction.
	if message.Author.IsBot || message.Author.ID == botUserID {
		return nil
	}

	for _, reaction := range message.Reactions {
		emoji := mapEmoji(reaction)

		afterUserID := ""
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			users, err := s.gateway.GetReactionUsers(
				ctx, message.ChannelID, message.ID, emoji.APIName(), afterUserID, s.pageSize,
			)
			if err != nil {
				return fmt.Errorf("failed to fetch reaction users: %w", err)
			}
			if len(users) == 0 {
				break
			}

			for _, user := range users {
				// A bot never sends a counted reaction either.
				if user.IsBot || user.ID == botUserID {
					continue
				}

				// Dedup policy: skip tuples the ledger already represents, so
				// re-running backfill never double-counts.
				exists, err := s.ledgerService.HasAddEvent(ctx, guildID, user.ID, message.ID, emoji)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				input := models.ReactionInput{
					Reactor: models.UserRef{
						ID:            user.ID,
						DisplayName:   user.Username,
						Discriminator: user.Discriminator,
					},
					Author: models.UserRef{
						ID:            message.Author.ID,
						DisplayName:   message.Author.Username,
						Discriminator: message.Author.Discriminator,
					},
					Message: models.MessageRef{
						ID:        message.ID,
						ChannelID: message.ChannelID,
						// History reads may omit the guild on the message
						// itself; the walk's guild is authoritative.
						GuildID: guildID,
					},
					Emoji: emoji,
					Kind:  models.ReactionEventKindAdd,
				}
				if err := s.ledgerService.RecordReaction(ctx, input); err != nil {
					return err
				}
			}

			afterUserID = users[len(users)-1].ID
			if len(users) < s.pageSize {
				break
			}
		}
	}

	return nil
}

// markCheckpointFailed is best effort; the walk error is what propagates.
func (s *BackfillService) markCheckpointFailed(ctx context.Context, guildID, channelID, lastMessageID string) {
	if _, err := s.checkpointsRepo.UpsertCheckpoint(
		ctx, guildID, channelID, lastMessageID, models.BackfillCheckpointStatusFailed,
	); err != nil {
		log.Printf("⚠️ Failed to mark backfill checkpoint failed for channel %s: %v", channelID, err)
	}
}

func mapEmoji(reaction clients.GatewayReaction) models.Emoji {
	if reaction.EmojiID != "" {
		return models.CustomEmoji(reaction.EmojiName, reaction.EmojiID)
	}
	return models.UnicodeEmoji(reaction.EmojiName)
}
