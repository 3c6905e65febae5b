package models

import (
	"time"
)

// Message is a chat message that received at least one reaction.
// Channel, guild and author are immutable once the row exists.
type Message struct {
	ID        string    `db:"id"         json:"id"`
	ChannelID string    `db:"channel_id" json:"channel_id"`
	GuildID   string    `db:"guild_id"   json:"guild_id"`
	AuthorID  string    `db:"author_id"  json:"author_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
