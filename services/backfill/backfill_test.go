package backfill

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reactboard/clients"
	discordclient "reactboard/clients/discord"
	"reactboard/db"
	"reactboard/models"
	"reactboard/services/ledger"
	"reactboard/services/txmanager"
	"reactboard/testutils"
)

type backfillFixture struct {
	gateway         *discordclient.MockChatGatewayClient
	service         *BackfillService
	ledger          *ledger.LedgerService
	eventsRepo      *db.PostgresReactionEventsRepository
	checkpointsRepo *db.PostgresBackfillCheckpointsRepository
	guildID         string
}

const testPageSize = 100

func setupBackfill(t *testing.T) *backfillFixture {
	dbConn, schema := testutils.SetupTestDB(t)

	usersRepo := db.NewPostgresUsersRepository(dbConn, schema)
	messagesRepo := db.NewPostgresMessagesRepository(dbConn, schema)
	eventsRepo := db.NewPostgresReactionEventsRepository(dbConn, schema)
	checkpointsRepo := db.NewPostgresBackfillCheckpointsRepository(dbConn, schema)
	txManager := txmanager.NewTransactionManager(dbConn)
	ledgerService := ledger.NewLedgerService(usersRepo, messagesRepo, eventsRepo, txManager)

	gateway := new(discordclient.MockChatGatewayClient)

	return &backfillFixture{
		gateway:         gateway,
		service:         NewBackfillService(gateway, ledgerService, checkpointsRepo, testPageSize),
		ledger:          ledgerService,
		eventsRepo:      eventsRepo,
		checkpointsRepo: checkpointsRepo,
		guildID:         testutils.TestGuildID(),
	}
}

func testMessageID() string {
	return "msg-" + uuid.New().String()
}

func gatewayUser(name string) clients.GatewayUser {
	return clients.GatewayUser{
		ID:            "user-" + name + "-" + uuid.New().String(),
		Username:      name,
		Discriminator: "0",
	}
}

func (f *backfillFixture) expectBot() clients.GatewayUser {
	bot := gatewayUser("bot")
	bot.IsBot = true
	f.gateway.On("GetBotUser").Return(&bot, nil)
	return bot
}

func TestBackfillService_BackfillGuild_RecordsVisibleReactions(t *testing.T) {
	f := setupBackfill(t)
	ctx := context.Background()
	f.expectBot()

	author := gatewayUser("author")
	reactor := gatewayUser("reactor")
	messageID := testMessageID()

	message := clients.GatewayMessage{
		ID:        messageID,
		ChannelID: "chan-1",
		Author:    author,
		Reactions: []clients.GatewayReaction{{EmojiName: "🔥", Count: 1}},
	}

	f.gateway.On("ListTextChannels", mock.Anything, f.guildID).
		Return([]clients.GatewayChannel{{ID: "chan-1", Name: "general"}}, nil)
	f.gateway.On("GetMessagesPage", mock.Anything, "chan-1", "", testPageSize).
		Return([]clients.GatewayMessage{message}, nil)
	f.gateway.On("GetReactionUsers", mock.Anything, "chan-1", messageID, "🔥", "", testPageSize).
		Return([]clients.GatewayUser{reactor}, nil)

	require.NoError(t, f.service.BackfillGuild(ctx, f.guildID))

	exists, err := f.ledger.HasAddEvent(ctx, f.guildID, reactor.ID, messageID, models.UnicodeEmoji("🔥"))
	require.NoError(t, err)
	assert.True(t, exists)

	maybeCheckpoint, err := f.checkpointsRepo.GetCheckpoint(ctx, f.guildID, "chan-1")
	require.NoError(t, err)
	require.True(t, maybeCheckpoint.IsPresent())
	checkpoint := maybeCheckpoint.MustGet()
	assert.Equal(t, models.BackfillCheckpointStatusCompleted, checkpoint.Status)
	assert.Equal(t, messageID, checkpoint.LastMessageID)
}

func TestBackfillService_BackfillGuild_RerunDoesNotDoubleCount(t *testing.T) {
	f := setupBackfill(t)
	ctx := context.Background()
	f.expectBot()

	author := gatewayUser("author")
	reactor := gatewayUser("reactor")
	messageID := testMessageID()

	message := clients.GatewayMessage{
		ID:        messageID,
		ChannelID: "chan-1",
		Author:    author,
		Reactions: []clients.GatewayReaction{{EmojiName: "👍", Count: 1}},
	}

	f.gateway.On("ListTextChannels", mock.Anything, f.guildID).
		Return([]clients.GatewayChannel{{ID: "chan-1", Name: "general"}}, nil)
	// Both runs are served the same page regardless of cursor: even a full
	// re-walk from scratch must dedup.
	f.gateway.On("GetMessagesPage", mock.Anything, "chan-1", mock.Anything, testPageSize).
		Return([]clients.GatewayMessage{message}, nil)
	f.gateway.On("GetReactionUsers", mock.Anything, "chan-1", messageID, "👍", "", testPageSize).
		Return([]clients.GatewayUser{reactor}, nil)

	require.NoError(t, f.service.BackfillGuild(ctx, f.guildID))
	require.NoError(t, f.service.BackfillGuild(ctx, f.guildID))

	rows, err := f.eventsRepo.TopReceiversByGuild(ctx, f.guildID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].NetCount)
}

func TestBackfillService_BackfillGuild_SkipsBotAuthorsAndBotReactors(t *testing.T) {
	f := setupBackfill(t)
	ctx := context.Background()
	bot := f.expectBot()

	author := gatewayUser("author")
	botReactor := gatewayUser("other-bot")
	botReactor.IsBot = true

	botMessageID := testMessageID()
	humanMessageID := testMessageID()
	botMessage := clients.GatewayMessage{
		ID:        botMessageID,
		ChannelID: "chan-1",
		Author:    clients.GatewayUser{ID: bot.ID, Username: bot.Username, IsBot: true},
		Reactions: []clients.GatewayReaction{{EmojiName: "🔥", Count: 5}},
	}
	humanMessage := clients.GatewayMessage{
		ID:        humanMessageID,
		ChannelID: "chan-1",
		Author:    author,
		Reactions: []clients.GatewayReaction{{EmojiName: "🔥", Count: 1}},
	}

	f.gateway.On("ListTextChannels", mock.Anything, f.guildID).
		Return([]clients.GatewayChannel{{ID: "chan-1", Name: "general"}}, nil)
	f.gateway.On("GetMessagesPage", mock.Anything, "chan-1", "", testPageSize).
		Return([]clients.GatewayMessage{botMessage, humanMessage}, nil)
	f.gateway.On("GetReactionUsers", mock.Anything, "chan-1", humanMessageID, "🔥", "", testPageSize).
		Return([]clients.GatewayUser{botReactor}, nil)

	require.NoError(t, f.service.BackfillGuild(ctx, f.guildID))

	// The bot-authored message's reactions were never even fetched, and the
	// bot reactor on the human message was dropped.
	f.gateway.AssertNotCalled(t, "GetReactionUsers", mock.Anything, "chan-1", botMessageID, "🔥", "", testPageSize)

	rows, err := f.eventsRepo.TopReceiversByGuild(ctx, f.guildID, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBackfillService_BackfillGuild_ContinuesPastFailingChannel(t *testing.T) {
	f := setupBackfill(t)
	ctx := context.Background()
	f.expectBot()

	author := gatewayUser("author")
	reactor := gatewayUser("reactor")

	messageID := testMessageID()
	message := clients.GatewayMessage{
		ID:        messageID,
		ChannelID: "chan-good",
		Author:    author,
		Reactions: []clients.GatewayReaction{{EmojiName: "👍", Count: 1}},
	}

	f.gateway.On("ListTextChannels", mock.Anything, f.guildID).
		Return([]clients.GatewayChannel{
			{ID: "chan-bad", Name: "locked"},
			{ID: "chan-good", Name: "general"},
		}, nil)
	f.gateway.On("GetMessagesPage", mock.Anything, "chan-bad", "", testPageSize).
		Return(nil, fmt.Errorf("missing access"))
	f.gateway.On("GetMessagesPage", mock.Anything, "chan-good", "", testPageSize).
		Return([]clients.GatewayMessage{message}, nil)
	f.gateway.On("GetReactionUsers", mock.Anything, "chan-good", messageID, "👍", "", testPageSize).
		Return([]clients.GatewayUser{reactor}, nil)

	// The broken channel is skipped, not fatal.
	require.NoError(t, f.service.BackfillGuild(ctx, f.guildID))

	exists, err := f.ledger.HasAddEvent(ctx, f.guildID, reactor.ID, messageID, models.UnicodeEmoji("👍"))
	require.NoError(t, err)
	assert.True(t, exists)

	maybeCheckpoint, err := f.checkpointsRepo.GetCheckpoint(ctx, f.guildID, "chan-bad")
	require.NoError(t, err)
	require.True(t, maybeCheckpoint.IsPresent())
	assert.Equal(t, models.BackfillCheckpointStatusFailed, maybeCheckpoint.MustGet().Status)
}

func TestBackfillService_BackfillGuild_CancelledContextAborts(t *testing.T) {
	f := setupBackfill(t)
	f.expectBot()

	f.gateway.On("ListTextChannels", mock.Anything, f.guildID).
		Return([]clients.GatewayChannel{{ID: "chan-1", Name: "general"}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.service.BackfillGuild(ctx, f.guildID)
	assert.ErrorIs(t, err, context.Canceled)
	f.gateway.AssertNotCalled(t, "GetMessagesPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBackfillService_BackfillGuild_ResumesFromCheckpoint(t *testing.T) {
	f := setupBackfill(t)
	ctx := context.Background()
	f.expectBot()

	// A previous run already walked through message 150.
	_, err := f.checkpointsRepo.UpsertCheckpoint(
		ctx, f.guildID, "chan-1", "150", models.BackfillCheckpointStatusInProgress,
	)
	require.NoError(t, err)

	f.gateway.On("ListTextChannels", mock.Anything, f.guildID).
		Return([]clients.GatewayChannel{{ID: "chan-1", Name: "general"}}, nil)
	f.gateway.On("GetMessagesPage", mock.Anything, "chan-1", "150", testPageSize).
		Return([]clients.GatewayMessage{}, nil)

	require.NoError(t, f.service.BackfillGuild(ctx, f.guildID))

	// Only the post-checkpoint page was requested.
	f.gateway.AssertNotCalled(t, "GetMessagesPage", mock.Anything, "chan-1", "", testPageSize)
}

func TestBackfillService_BackfillGuild_RejectsEmptyGuildID(t *testing.T) {
	f := setupBackfill(t)
	err := f.service.BackfillGuild(context.Background(), "")
	assert.Error(t, err)
}
