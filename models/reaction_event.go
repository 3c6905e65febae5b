package models

import (
	"time"
)

type ReactionEventKind string

const (
	ReactionEventKindAdd    ReactionEventKind = "add"
	ReactionEventKindRemove ReactionEventKind = "remove"
)

// ReactionEvent is one row in the append-only ledger. Rows are never updated
// or deleted; aggregation is a fold over event kinds.
type ReactionEvent struct {
	ID              int64             `db:"id"                json:"id"`
	ReactorUserID   string            `db:"reactor_user_id"   json:"reactor_user_id"`
	MessageID       string            `db:"message_id"        json:"message_id"`
	MessageAuthorID string            `db:"message_author_id" json:"message_author_id"`
	EmojiKind       EmojiKind         `db:"emoji_kind"        json:"emoji_kind"`
	EmojiName       string            `db:"emoji_name"        json:"emoji_name"`
	EmojiCustomID   *string           `db:"emoji_custom_id"   json:"emoji_custom_id,omitempty"`
	EventKind       ReactionEventKind `db:"event_kind"        json:"event_kind"`
	GuildID         string            `db:"guild_id"          json:"guild_id"`
	RecordedAt      time.Time         `db:"recorded_at"       json:"recorded_at"`
}

// Emoji reassembles the discriminated union from the stored columns.
func (e *ReactionEvent) Emoji() Emoji {
	if e.EmojiKind == EmojiKindCustom && e.EmojiCustomID != nil {
		return CustomEmoji(e.EmojiName, *e.EmojiCustomID)
	}
	return UnicodeEmoji(e.EmojiName)
}

// UserRef is the identity of a user as delivered by the platform gateway.
type UserRef struct {
	ID            string
	DisplayName   string
	Discriminator string
}

// MessageRef is the identity and context of a message as delivered by the
// platform gateway.
type MessageRef struct {
	ID        string
	ChannelID string
	GuildID   string
}

// ReactionInput is the unit of work handed to the ingestion service: one
// reaction add/remove observed on the platform.
type ReactionInput struct {
	Reactor UserRef
	Author  UserRef
	Message MessageRef
	Emoji   Emoji
	Kind    ReactionEventKind
}
