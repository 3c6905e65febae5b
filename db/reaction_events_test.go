package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reactboard/models"
)

// Repository behavior against a live database is covered by the service layer
// integration tests; these cover the query fragments that are easy to get
// subtly wrong.

func TestEmojiPredicate_PlaceholderNumbering(t *testing.T) {
	assert.Equal(t,
		"emoji_kind = $4 AND emoji_name = $5 AND COALESCE(emoji_custom_id, '') = $6",
		emojiPredicate(4))

	assert.Equal(t,
		"re.emoji_kind = $2 AND re.emoji_name = $3 AND COALESCE(re.emoji_custom_id, '') = $4",
		emojiPredicateQualified("re", 2))
}

func TestEmojiArgs_MatchPredicateShape(t *testing.T) {
	unicode := emojiArgs(models.UnicodeEmoji("🔥"))
	assert.Equal(t, []interface{}{"unicode", "🔥", ""}, unicode)

	custom := emojiArgs(models.CustomEmoji("party", "123"))
	assert.Equal(t, []interface{}{"custom", "party", "123"}, custom)
}
