package ledger

import (
	"context"
	"fmt"
	"log"

	"reactboard/db"
	"reactboard/models"
	"reactboard/services"
)

// LedgerService is the single ingestion path for reaction events. Both live
// gateway notifications and backfill funnel through RecordReaction, so the
// transaction here is the only synchronization point the ledger needs.
type LedgerService struct {
	usersRepo    *db.PostgresUsersRepository
	messagesRepo *db.PostgresMessagesRepository
	eventsRepo   *db.PostgresReactionEventsRepository
	txManager    services.TransactionManager
}

func NewLedgerService(
	usersRepo *db.PostgresUsersRepository,
	messagesRepo *db.PostgresMessagesRepository,
	eventsRepo *db.PostgresReactionEventsRepository,
	txManager services.TransactionManager,
) *LedgerService {
	return &LedgerService{
		usersRepo:    usersRepo,
		messagesRepo: messagesRepo,
		eventsRepo:   eventsRepo,
		txManager:    txManager,
	}
}

// RecordReaction upserts the reactor, the message author and the message, then
// appends one event row - all in a single transaction, so a reader can never
// observe an event whose referenced rows are missing.
//
// Malformed input is dropped with a log line instead of an error: ingestion
// must never take down the event-delivery pipeline.
func (s *LedgerService) RecordReaction(ctx context.Context, input models.ReactionInput) error {
	if input.Reactor.ID == "" {
		log.Printf("⚠️ Dropping reaction event on message %s: reactor identity unresolved", input.Message.ID)
		return nil
	}
	if input.Author.ID == "" {
		log.Printf("⚠️ Dropping reaction event on message %s: author identity unresolved", input.Message.ID)
		return nil
	}
	if input.Message.ID == "" {
		log.Printf("⚠️ Dropping reaction event by user %s: message identity unresolved", input.Reactor.ID)
		return nil
	}
	if input.Message.GuildID == "" {
		log.Printf("⚠️ Dropping reaction event on message %s: no guild context", input.Message.ID)
		return nil
	}
	if input.Kind != models.ReactionEventKindAdd && input.Kind != models.ReactionEventKindRemove {
		log.Printf("⚠️ Dropping reaction event on message %s: unknown event kind %q", input.Message.ID, input.Kind)
		return nil
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.usersRepo.UpsertUser(
			txCtx,
			input.Reactor.ID,
			input.Reactor.DisplayName,
			normalizeDiscriminator(input.Reactor.Discriminator),
		); err != nil {
			return fmt.Errorf("failed to upsert reactor: %w", err)
		}

		if _, err := s.usersRepo.UpsertUser(
			txCtx,
			input.Author.ID,
			input.Author.DisplayName,
			normalizeDiscriminator(input.Author.Discriminator),
		); err != nil {
			return fmt.Errorf("failed to upsert message author: %w", err)
		}

		message, err := s.messagesRepo.UpsertMessage(
			txCtx,
			input.Message.ID,
			input.Message.ChannelID,
			input.Message.GuildID,
			input.Author.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert message: %w", err)
		}

		var emojiCustomID *string
		if input.Emoji.Kind == models.EmojiKindCustom {
			customID := input.Emoji.CustomID
			emojiCustomID = &customID
		}

		// The event takes guild and author from the stored message row, not
		// from the notification, so the two can never diverge.
		event := &models.ReactionEvent{
			ReactorUserID:   input.Reactor.ID,
			MessageID:       message.ID,
			MessageAuthorID: message.AuthorID,
			EmojiKind:       input.Emoji.Kind,
			EmojiName:       input.Emoji.Name,
			EmojiCustomID:   emojiCustomID,
			EventKind:       input.Kind,
			GuildID:         message.GuildID,
		}

		if _, err := s.eventsRepo.InsertReactionEvent(txCtx, event); err != nil {
			return fmt.Errorf("failed to append reaction event: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record reaction: %w", err)
	}

	log.Printf("📋 Recorded %s of %s by user %s on message %s in guild %s",
		input.Kind, input.Emoji.String(), input.Reactor.ID, input.Message.ID, input.Message.GuildID)
	return nil
}

// HasAddEvent reports whether an add event already exists for the tuple.
// Backfill uses it to skip reactions the ledger already represents.
func (s *LedgerService) HasAddEvent(
	ctx context.Context,
	guildID, reactorUserID, messageID string,
	emoji models.Emoji,
) (bool, error) {
	exists, err := s.eventsRepo.HasAddEvent(ctx, guildID, reactorUserID, messageID, emoji)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing add event: %w", err)
	}
	return exists, nil
}

func normalizeDiscriminator(discriminator string) string {
	if discriminator == "" {
		return models.NoDiscriminator
	}
	return discriminator
}
