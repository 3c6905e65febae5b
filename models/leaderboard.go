package models

// DefaultLeaderboardLimit is the row cap applied to every leaderboard query.
const DefaultLeaderboardLimit = 10

// UserNetCount is one leaderboard row keyed by user.
type UserNetCount struct {
	UserID        string `db:"user_id"       json:"user_id"`
	DisplayName   string `db:"display_name"  json:"display_name"`
	Discriminator string `db:"discriminator" json:"discriminator"`
	NetCount      int64  `db:"net_count"     json:"net_count"`
}

// Tag renders the row's user the same way models.User does.
func (r *UserNetCount) Tag() string {
	u := User{DisplayName: r.DisplayName, Discriminator: r.Discriminator}
	return u.Tag()
}

// EmojiNetCount is one leaderboard row keyed by emoji.
type EmojiNetCount struct {
	EmojiKind     EmojiKind `db:"emoji_kind"      json:"emoji_kind"`
	EmojiName     string    `db:"emoji_name"      json:"emoji_name"`
	EmojiCustomID *string   `db:"emoji_custom_id" json:"emoji_custom_id,omitempty"`
	NetCount      int64     `db:"net_count"       json:"net_count"`
}

// Emoji reassembles the discriminated union from the grouped columns.
func (r *EmojiNetCount) Emoji() Emoji {
	if r.EmojiKind == EmojiKindCustom && r.EmojiCustomID != nil {
		return CustomEmoji(r.EmojiName, *r.EmojiCustomID)
	}
	return UnicodeEmoji(r.EmojiName)
}

// MessageNetCount is one leaderboard row keyed by message, joined with the
// message author for display.
type MessageNetCount struct {
	MessageID     string `db:"message_id"    json:"message_id"`
	ChannelID     string `db:"channel_id"    json:"channel_id"`
	AuthorID      string `db:"author_id"     json:"author_id"`
	DisplayName   string `db:"display_name"  json:"display_name"`
	Discriminator string `db:"discriminator" json:"discriminator"`
	NetCount      int64  `db:"net_count"     json:"net_count"`
}

// AuthorTag renders the message author the same way models.User does.
func (r *MessageNetCount) AuthorTag() string {
	u := User{DisplayName: r.DisplayName, Discriminator: r.Discriminator}
	return u.Tag()
}
