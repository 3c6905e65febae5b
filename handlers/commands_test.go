package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactboard/models"
)

func TestParseEmojiArg(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    models.Emoji
		wantErr bool
	}{
		{
			name: "unicode emoji",
			raw:  "🔥",
			want: models.UnicodeEmoji("🔥"),
		},
		{
			name: "unicode emoji with whitespace",
			raw:  " 👍 ",
			want: models.UnicodeEmoji("👍"),
		},
		{
			name: "custom emoji mention",
			raw:  "<:party:123456789012345678>",
			want: models.CustomEmoji("party", "123456789012345678"),
		},
		{
			name: "animated custom emoji mention",
			raw:  "<a:blob_dance:987654321098765432>",
			want: models.CustomEmoji("blob_dance", "987654321098765432"),
		},
		{
			name:    "empty argument",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "malformed mention",
			raw:     "<:party:>",
			wantErr: true,
		},
		{
			name:    "user mention is not an emoji",
			raw:     "<@123456789012345678>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEmojiArg(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderUserLeaderboard(t *testing.T) {
	rows := []*models.UserNetCount{
		{UserID: "u1", DisplayName: "alice", Discriminator: "0", NetCount: 5},
		{UserID: "u2", DisplayName: "bob", Discriminator: "1234", NetCount: 3},
	}

	embed := renderUserLeaderboard("Top Reacted Users", rows)
	assert.Equal(t, "Top Reacted Users", embed.Title)
	assert.Contains(t, embed.Description, "1. **alice** — 5")
	assert.Contains(t, embed.Description, "2. **bob#1234** — 3")
}

func TestRenderEmojiLeaderboard_CustomEmojiMention(t *testing.T) {
	customID := "123456789012345678"
	rows := []*models.EmojiNetCount{
		{EmojiKind: models.EmojiKindCustom, EmojiName: "party", EmojiCustomID: &customID, NetCount: 7},
	}

	embed := renderEmojiLeaderboard("Server Top Reactions", rows)
	assert.Contains(t, embed.Description, "<:party:123456789012345678>")
}

func TestRenderLeaderboards_EmptyResults(t *testing.T) {
	assert.Contains(t, renderUserLeaderboard("t", nil).Description, "No reactions recorded yet")
	assert.Contains(t, renderEmojiLeaderboard("t", nil).Description, "No reactions recorded yet")
	assert.Contains(t, renderMessageLeaderboard("t", "g", nil).Description, "No reactions recorded yet")
}

func TestRenderMessageLeaderboard_LinksToMessage(t *testing.T) {
	rows := []*models.MessageNetCount{
		{
			MessageID:     "m1",
			ChannelID:     "c1",
			AuthorID:      "u1",
			DisplayName:   "alice",
			Discriminator: "0",
			NetCount:      4,
		},
	}

	embed := renderMessageLeaderboard("Most Reacted Messages", "g1", rows)
	assert.Contains(t, embed.Description, "https://discord.com/channels/g1/c1/m1")
	assert.Contains(t, embed.Description, "**alice**")
}
