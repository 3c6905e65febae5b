package handlers

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"

	"reactboard/middleware"
	"reactboard/models"
	"reactboard/services"
	"reactboard/usecases"
)

// DiscordEventsHandler owns the Discord session: it feeds reaction
// notifications into the ingestion path, kicks off per-guild backfill, and
// serves the slash-command query surface.
type DiscordEventsHandler struct {
	discordSDKClient   *discordgo.Session
	reactionsUseCase   usecases.ReactionsUseCaseInterface
	leaderboardService services.LeaderboardService
	alertMiddleware    *middleware.ErrorAlertMiddleware

	// backfillCtx bounds background backfill runs; cancelled on shutdown.
	backfillCtx context.Context

	mu              sync.Mutex
	backfillStarted map[string]bool
}

func NewDiscordEventsHandler(
	botToken string,
	backfillCtx context.Context,
	reactionsUseCase usecases.ReactionsUseCaseInterface,
	leaderboardService services.LeaderboardService,
	alertMiddleware *middleware.ErrorAlertMiddleware,
) (*DiscordEventsHandler, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	handler := &DiscordEventsHandler{
		discordSDKClient:   session,
		reactionsUseCase:   reactionsUseCase,
		leaderboardService: leaderboardService,
		alertMiddleware:    alertMiddleware,
		backfillCtx:        backfillCtx,
		backfillStarted:    make(map[string]bool),
	}

	// Register event handlers
	session.AddHandler(handler.handleGuildCreatedEvent)
	session.AddHandler(handler.handleReactionAddedEvent)
	session.AddHandler(handler.handleReactionRemovedEvent)
	session.AddHandler(handler.handleInteractionCreatedEvent)

	// Set intents to receive guild, message and reaction events
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions

	return handler, nil
}

// Session exposes the underlying SDK session for gateway clients that share it.
func (h *DiscordEventsHandler) Session() *discordgo.Session {
	return h.discordSDKClient
}

// SetReactionsUseCase attaches the core usecase. Must be called before
// StartBot; the constructor cannot take it because the usecase's backfill
// path depends on a gateway client built from this handler's session.
func (h *DiscordEventsHandler) SetReactionsUseCase(uc usecases.ReactionsUseCaseInterface) {
	h.reactionsUseCase = uc
}

// StartBot opens the Discord connection and registers the slash commands.
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	if err := h.registerSlashCommands(); err != nil {
		h.discordSDKClient.Close()
		return err
	}

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection.
func (h *DiscordEventsHandler) StopBot() {
	h.discordSDKClient.Close()
}

// handleGuildCreatedEvent fires once per guild after connect (and again on
// resume). It starts the guild's backfill in the background so live ingestion
// is never blocked behind the history walk.
func (h *DiscordEventsHandler) handleGuildCreatedEvent(s *discordgo.Session, g *discordgo.GuildCreate) {
	h.mu.Lock()
	alreadyStarted := h.backfillStarted[g.ID]
	h.backfillStarted[g.ID] = true
	h.mu.Unlock()

	if alreadyStarted {
		log.Printf("🔄 Backfill already started for guild %s - skipping", g.ID)
		return
	}

	log.Printf("🤖 Connected to guild %s (%s), starting background backfill", g.ID, g.Name)
	go func() {
		_ = h.alertMiddleware.WrapBackgroundTask("BackfillGuild "+g.ID, func() error {
			return h.reactionsUseCase.TriggerBackfill(h.backfillCtx, g.ID)
		})()
	}()
}

// handleReactionAddedEvent records a live reaction add.
func (h *DiscordEventsHandler) handleReactionAddedEvent(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	h.handleReactionEvent(s, r.MessageReaction, models.ReactionEventKindAdd)
}

// handleReactionRemovedEvent records a live reaction remove.
func (h *DiscordEventsHandler) handleReactionRemovedEvent(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	h.handleReactionEvent(s, r.MessageReaction, models.ReactionEventKindRemove)
}

func (h *DiscordEventsHandler) handleReactionEvent(
	s *discordgo.Session,
	r *discordgo.MessageReaction,
	kind models.ReactionEventKind,
) {
	if r.GuildID == "" {
		log.Printf("⚠️ Ignoring %s reaction outside a guild (channel %s)", kind, r.ChannelID)
		return
	}

	// Reactions from the bot itself are not counted.
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}

	ctx := context.Background()

	event, err := h.mapToReactionEvent(ctx, s, r, kind)
	if err != nil {
		log.Printf("❌ Failed to map Discord reaction event on message %s: %v", r.MessageID, err)
		h.alertMiddleware.NotifyError(err, fmt.Sprintf("Discord reaction %s event (message %s)", kind, r.MessageID))
		return
	}

	if err := h.reactionsUseCase.ProcessReactionEvent(ctx, event); err != nil {
		log.Printf("❌ Failed to process Discord reaction event: %v", err)
		h.alertMiddleware.NotifyError(err, fmt.Sprintf("Discord reaction %s event (message %s)", kind, r.MessageID))
	}
}

// mapToReactionEvent resolves the reactor and the target message into the
// platform-neutral event shape the core ingests.
func (h *DiscordEventsHandler) mapToReactionEvent(
	ctx context.Context,
	s *discordgo.Session,
	r *discordgo.MessageReaction,
	kind models.ReactionEventKind,
) (models.PlatformReactionEvent, error) {
	reactor, err := h.resolveUser(ctx, s, r.UserID)
	if err != nil {
		return models.PlatformReactionEvent{}, fmt.Errorf("failed to resolve reactor: %w", err)
	}

	message, err := s.ChannelMessage(r.ChannelID, r.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		return models.PlatformReactionEvent{}, fmt.Errorf("failed to fetch reacted message: %w", err)
	}

	author := models.UserRef{}
	if message.Author != nil {
		author = models.UserRef{
			ID:            message.Author.ID,
			DisplayName:   message.Author.Username,
			Discriminator: message.Author.Discriminator,
		}
	}
	// An unresolvable author is not an error here: the ingestion service
	// drops the event with a diagnostic instead of failing the stream.

	return models.PlatformReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		Reactor:   reactor,
		Author:    author,
		Emoji:     mapDiscordEmoji(&r.Emoji),
		Kind:      kind,
	}, nil
}

func (h *DiscordEventsHandler) resolveUser(
	ctx context.Context,
	s *discordgo.Session,
	userID string,
) (models.UserRef, error) {
	user, err := s.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return models.UserRef{}, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	return models.UserRef{
		ID:            user.ID,
		DisplayName:   user.Username,
		Discriminator: user.Discriminator,
	}, nil
}

func mapDiscordEmoji(emoji *discordgo.Emoji) models.Emoji {
	if emoji.ID != "" {
		return models.CustomEmoji(emoji.Name, emoji.ID)
	}
	return models.UnicodeEmoji(emoji.Name)
}
