package discord

import (
	"context"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"reactboard/clients"
)

// DiscordClient implements the clients.ChatGatewayClient interface on top of
// a live discordgo session.
type DiscordClient struct {
	session *discordgo.Session
}

// NewDiscordClient wraps an already-created discordgo session. The session's
// lifecycle (Open/Close) is owned by the events handler, not by this client.
func NewDiscordClient(session *discordgo.Session) clients.ChatGatewayClient {
	return &DiscordClient{session: session}
}

// GetBotUser returns the identity the bot runs under.
func (c *DiscordClient) GetBotUser() (*clients.GatewayUser, error) {
	if c.session.State != nil && c.session.State.User != nil {
		return mapUser(c.session.State.User), nil
	}

	user, err := c.session.User("@me")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot user: %w", err)
	}

	return mapUser(user), nil
}

// ListTextChannels returns the guild's text-bearing channels.
func (c *DiscordClient) ListTextChannels(ctx context.Context, guildID string) ([]clients.GatewayChannel, error) {
	channels, err := c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list guild channels: %w", err)
	}

	result := []clients.GatewayChannel{}
	for _, channel := range channels {
		if channel.Type != discordgo.ChannelTypeGuildText &&
			channel.Type != discordgo.ChannelTypeGuildNews {
			continue
		}
		result = append(result, clients.GatewayChannel{
			ID:   channel.ID,
			Name: channel.Name,
		})
	}

	return result, nil
}

// GetMessagesPage fetches one page of channel history strictly after
// afterMessageID and returns it oldest first.
func (c *DiscordClient) GetMessagesPage(
	ctx context.Context,
	channelID, afterMessageID string,
	limit int,
) ([]clients.GatewayMessage, error) {
	messages, err := c.session.ChannelMessages(
		channelID,
		limit,
		"",
		afterMessageID,
		"",
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel messages: %w", err)
	}

	result := make([]clients.GatewayMessage, 0, len(messages))
	for _, message := range messages {
		if message.Author == nil {
			// Webhook/system messages may carry no resolvable author;
			// ingestion would skip them anyway.
			continue
		}

		reactions := make([]clients.GatewayReaction, 0, len(message.Reactions))
		for _, reaction := range message.Reactions {
			if reaction.Emoji == nil {
				continue
			}
			reactions = append(reactions, clients.GatewayReaction{
				EmojiName: reaction.Emoji.Name,
				EmojiID:   reaction.Emoji.ID,
				Count:     reaction.Count,
			})
		}

		result = append(result, clients.GatewayMessage{
			ID:        message.ID,
			ChannelID: message.ChannelID,
			GuildID:   message.GuildID,
			Author:    *mapUser(message.Author),
			Reactions: reactions,
		})
	}

	// The REST API hands pages back newest first; backfill wants them in
	// ledger order.
	sort.Slice(result, func(i, j int) bool {
		return snowflakeLess(result[i].ID, result[j].ID)
	})

	return result, nil
}

// GetReactionUsers fetches one page of users who applied the given reaction.
func (c *DiscordClient) GetReactionUsers(
	ctx context.Context,
	channelID, messageID, emojiAPIName, afterUserID string,
	limit int,
) ([]clients.GatewayUser, error) {
	users, err := c.session.MessageReactions(
		channelID,
		messageID,
		emojiAPIName,
		limit,
		"",
		afterUserID,
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reaction users: %w", err)
	}

	result := make([]clients.GatewayUser, 0, len(users))
	for _, user := range users {
		result = append(result, *mapUser(user))
	}

	return result, nil
}

func mapUser(user *discordgo.User) *clients.GatewayUser {
	return &clients.GatewayUser{
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		IsBot:         user.Bot,
	}
}

// snowflakeLess orders Discord snowflake IDs chronologically. Snowflakes are
// decimal strings, so shorter means smaller.
func snowflakeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
