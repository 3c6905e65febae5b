package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactboard/db"
	"reactboard/models"
	"reactboard/services/txmanager"
	"reactboard/testutils"
)

func setupLedgerService(t *testing.T) (*LedgerService, *db.PostgresUsersRepository, *db.PostgresMessagesRepository, *db.PostgresReactionEventsRepository) {
	dbConn, schema := testutils.SetupTestDB(t)

	usersRepo := db.NewPostgresUsersRepository(dbConn, schema)
	messagesRepo := db.NewPostgresMessagesRepository(dbConn, schema)
	eventsRepo := db.NewPostgresReactionEventsRepository(dbConn, schema)
	txManager := txmanager.NewTransactionManager(dbConn)

	service := NewLedgerService(usersRepo, messagesRepo, eventsRepo, txManager)
	return service, usersRepo, messagesRepo, eventsRepo
}

func TestLedgerService_RecordReaction_AppendsEventWithReferencedRows(t *testing.T) {
	service, usersRepo, messagesRepo, _ := setupLedgerService(t)
	ctx := context.Background()

	guildID := testutils.TestGuildID()
	reactor := testutils.TestUserRef("alice")
	author := testutils.TestUserRef("bob")
	message := testutils.TestMessageRef(guildID)
	emoji := models.UnicodeEmoji("🔥")

	err := service.RecordReaction(ctx, models.ReactionInput{
		Reactor: reactor,
		Author:  author,
		Message: message,
		Emoji:   emoji,
		Kind:    models.ReactionEventKindAdd,
	})
	require.NoError(t, err)

	// The event is observable.
	exists, err := service.HasAddEvent(ctx, guildID, reactor.ID, message.ID, emoji)
	require.NoError(t, err)
	assert.True(t, exists)

	// And so are the rows it references.
	maybeReactor, err := usersRepo.GetUserByID(ctx, reactor.ID)
	require.NoError(t, err)
	require.True(t, maybeReactor.IsPresent())
	assert.Equal(t, "alice", maybeReactor.MustGet().DisplayName)

	maybeAuthor, err := usersRepo.GetUserByID(ctx, author.ID)
	require.NoError(t, err)
	require.True(t, maybeAuthor.IsPresent())

	maybeMessage, err := messagesRepo.GetMessageByID(ctx, message.ID)
	require.NoError(t, err)
	require.True(t, maybeMessage.IsPresent())
	assert.Equal(t, guildID, maybeMessage.MustGet().GuildID)
	assert.Equal(t, author.ID, maybeMessage.MustGet().AuthorID)
}

func TestLedgerService_RecordReaction_UserUpsertIsIdempotent(t *testing.T) {
	service, usersRepo, _, _ := setupLedgerService(t)
	ctx := context.Background()

	guildID := testutils.TestGuildID()
	reactor := testutils.TestUserRef("old-name")
	author := testutils.TestUserRef("author")
	message := testutils.TestMessageRef(guildID)

	input := models.ReactionInput{
		Reactor: reactor,
		Author:  author,
		Message: message,
		Emoji:   models.UnicodeEmoji("👍"),
		Kind:    models.ReactionEventKindAdd,
	}
	require.NoError(t, service.RecordReaction(ctx, input))

	// Same user reacts again under a new display name: no duplicate row, the
	// profile is refreshed in place.
	input.Reactor.DisplayName = "new-name"
	input.Emoji = models.UnicodeEmoji("🎉")
	require.NoError(t, service.RecordReaction(ctx, input))

	maybeUser, err := usersRepo.GetUserByID(ctx, reactor.ID)
	require.NoError(t, err)
	require.True(t, maybeUser.IsPresent())
	assert.Equal(t, "new-name", maybeUser.MustGet().DisplayName)
}

func TestLedgerService_RecordReaction_MessageFirstWriteWins(t *testing.T) {
	service, _, messagesRepo, _ := setupLedgerService(t)
	ctx := context.Background()

	guildID := testutils.TestGuildID()
	reactor := testutils.TestUserRef("reactor")
	author := testutils.TestUserRef("author")
	message := testutils.TestMessageRef(guildID)

	input := models.ReactionInput{
		Reactor: reactor,
		Author:  author,
		Message: message,
		Emoji:   models.UnicodeEmoji("👀"),
		Kind:    models.ReactionEventKindAdd,
	}
	require.NoError(t, service.RecordReaction(ctx, input))

	// A later notification claiming a different channel does not rewrite the
	// stored message row.
	originalChannel := message.ChannelID
	input.Message.ChannelID = "chan-someone-lied"
	input.Emoji = models.UnicodeEmoji("😀")
	require.NoError(t, service.RecordReaction(ctx, input))

	maybeMessage, err := messagesRepo.GetMessageByID(ctx, message.ID)
	require.NoError(t, err)
	require.True(t, maybeMessage.IsPresent())
	assert.Equal(t, originalChannel, maybeMessage.MustGet().ChannelID)
}

func TestLedgerService_RecordReaction_RemoveEventsAreAppendedNotDeleted(t *testing.T) {
	service, _, _, eventsRepo := setupLedgerService(t)
	ctx := context.Background()

	guildID := testutils.TestGuildID()
	reactor := testutils.TestUserRef("reactor")
	author := testutils.TestUserRef("author")
	message := testutils.TestMessageRef(guildID)
	emoji := models.UnicodeEmoji("💯")

	input := models.ReactionInput{
		Reactor: reactor,
		Author:  author,
		Message: message,
		Emoji:   emoji,
		Kind:    models.ReactionEventKindAdd,
	}
	require.NoError(t, service.RecordReaction(ctx, input))

	input.Kind = models.ReactionEventKindRemove
	require.NoError(t, service.RecordReaction(ctx, input))

	// The add event is still there; the remove only offsets the net count.
	exists, err := service.HasAddEvent(ctx, guildID, reactor.ID, message.ID, emoji)
	require.NoError(t, err)
	assert.True(t, exists)

	rows, err := eventsRepo.TopReceiversByGuild(ctx, guildID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0].NetCount)
}

func TestLedgerService_RecordReaction_DropsMalformedInput(t *testing.T) {
	service, usersRepo, _, _ := setupLedgerService(t)
	ctx := context.Background()

	guildID := testutils.TestGuildID()
	reactor := testutils.TestUserRef("reactor")
	author := testutils.TestUserRef("author")
	message := testutils.TestMessageRef(guildID)

	valid := models.ReactionInput{
		Reactor: reactor,
		Author:  author,
		Message: message,
		Emoji:   models.UnicodeEmoji("👍"),
		Kind:    models.ReactionEventKindAdd,
	}

	tests := []struct {
		name   string
		mutate func(*models.ReactionInput)
	}{
		{"missing reactor", func(i *models.ReactionInput) { i.Reactor.ID = "" }},
		{"missing author", func(i *models.ReactionInput) { i.Author.ID = "" }},
		{"missing message", func(i *models.ReactionInput) { i.Message.ID = "" }},
		{"missing guild", func(i *models.ReactionInput) { i.Message.GuildID = "" }},
		{"unknown kind", func(i *models.ReactionInput) { i.Kind = "toggled" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			// Dropped silently, never an error.
			require.NoError(t, service.RecordReaction(ctx, input))
		})
	}

	// None of the dropped events wrote anything.
	maybeUser, err := usersRepo.GetUserByID(ctx, reactor.ID)
	require.NoError(t, err)
	assert.False(t, maybeUser.IsPresent())
}

func TestLedgerService_RecordReaction_CustomEmojiKeepsIdentity(t *testing.T) {
	service, _, _, _ := setupLedgerService(t)
	ctx := context.Background()

	guildID := testutils.TestGuildID()
	reactor := testutils.TestUserRef("reactor")
	author := testutils.TestUserRef("author")
	message := testutils.TestMessageRef(guildID)

	partyA := models.CustomEmoji("party", "111111111111111111")
	partyB := models.CustomEmoji("party", "222222222222222222")

	input := models.ReactionInput{
		Reactor: reactor,
		Author:  author,
		Message: message,
		Emoji:   partyA,
		Kind:    models.ReactionEventKindAdd,
	}
	require.NoError(t, service.RecordReaction(ctx, input))

	// Same name, different custom ID: distinct emoji.
	exists, err := service.HasAddEvent(ctx, guildID, reactor.ID, message.ID, partyB)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = service.HasAddEvent(ctx, guildID, reactor.ID, message.ID, partyA)
	require.NoError(t, err)
	assert.True(t, exists)
}
