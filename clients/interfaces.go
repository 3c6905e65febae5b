package clients

import (
	"context"
)

// ChatGatewayClient is the surface of the chat platform the ledger core
// depends on: bot identity, channel listing, and the paginated reads backfill
// walks. Implementations live in subpackages (clients/discord).
type ChatGatewayClient interface {
	// GetBotUser returns the identity the bot itself runs under.
	GetBotUser() (*GatewayUser, error)
	// ListTextChannels returns the text-bearing channels of a guild.
	ListTextChannels(ctx context.Context, guildID string) ([]GatewayChannel, error)
	// GetMessagesPage returns up to limit messages strictly after
	// afterMessageID, oldest first. An empty afterMessageID starts from the
	// beginning of the channel's history.
	GetMessagesPage(ctx context.Context, channelID, afterMessageID string, limit int) ([]GatewayMessage, error)
	// GetReactionUsers returns up to limit users who applied the given
	// reaction, paginated by afterUserID.
	GetReactionUsers(
		ctx context.Context,
		channelID, messageID, emojiAPIName, afterUserID string,
		limit int,
	) ([]GatewayUser, error)
}
