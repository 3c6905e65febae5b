package clients

// GatewayUser is a platform user as seen by the gateway.
type GatewayUser struct {
	ID            string
	Username      string
	Discriminator string
	IsBot         bool
}

// GatewayChannel is a text-bearing channel of a guild.
type GatewayChannel struct {
	ID   string
	Name string
}

// GatewayReaction is one distinct reaction entry on a message. EmojiID is
// empty for unicode emoji.
type GatewayReaction struct {
	EmojiName string
	EmojiID   string
	Count     int
}

// GatewayMessage is one message from a channel's history, carrying its
// current reaction entries.
type GatewayMessage struct {
	ID        string
	ChannelID string
	GuildID   string
	Author    GatewayUser
	Reactions []GatewayReaction
}
