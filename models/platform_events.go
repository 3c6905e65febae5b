package models

// PlatformReactionEvent is a reaction notification as delivered by the chat
// platform gateway, already resolved against the message it targets.
type PlatformReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	Reactor   UserRef
	Author    UserRef
	Emoji     Emoji
	Kind      ReactionEventKind
}
