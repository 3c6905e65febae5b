package handlers

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"reactboard/models"
)

const (
	commandTopUsers           = "topusers"
	commandMyTopReactions     = "mytopreactions"
	commandTopEmojiUsers      = "topemojiusers"
	commandServerTopReactions = "servertopreactions"
	commandUserTopReceived    = "usertopreceived"
	commandTopMessages        = "topmessages"
)

// customEmojiPattern matches a custom emoji mention like <:party:1234> or an
// animated one like <a:party:1234>.
var customEmojiPattern = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]+):([0-9]+)>$`)

var slashCommands = []*discordgo.ApplicationCommand{
	{
		Name:        commandTopUsers,
		Description: "Show the users who received the most reactions in this server",
	},
	{
		Name:        commandMyTopReactions,
		Description: "Show the reactions you hand out most often",
	},
	{
		Name:        commandTopEmojiUsers,
		Description: "Show the users who received a specific reaction the most",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "emoji",
				Description: "The emoji to rank receivers by",
				Required:    true,
			},
		},
	},
	{
		Name:        commandServerTopReactions,
		Description: "Show the most used reactions in this server",
	},
	{
		Name:        commandUserTopReceived,
		Description: "Show the reactions a user receives most often",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The user to look up (defaults to you)",
				Required:    false,
			},
		},
	},
	{
		Name:        commandTopMessages,
		Description: "Show the most reacted messages in this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "emoji",
				Description: "Only count this emoji",
				Required:    false,
			},
		},
	},
}

func (h *DiscordEventsHandler) registerSlashCommands() error {
	appID := h.discordSDKClient.State.User.ID
	if _, err := h.discordSDKClient.ApplicationCommandBulkOverwrite(appID, "", slashCommands); err != nil {
		return fmt.Errorf("failed to register slash commands: %w", err)
	}

	log.Printf("✅ Registered %d slash commands", len(slashCommands))
	return nil
}

// handleInteractionCreatedEvent dispatches slash-command invocations to the
// matching leaderboard query and renders the result as an embed.
func (h *DiscordEventsHandler) handleInteractionCreatedEvent(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	log.Printf("📋 Handling /%s command in guild %s", data.Name, i.GuildID)

	if i.GuildID == "" {
		h.respondEphemeral(s, i, "This command only works inside a server.")
		return
	}

	ctx := context.Background()

	embed, err := h.buildCommandResponse(ctx, s, i, data)
	if err != nil {
		log.Printf("❌ Failed to handle /%s command: %v", data.Name, err)
		h.alertMiddleware.NotifyError(err, fmt.Sprintf("Slash command /%s", data.Name))
		h.respondEphemeral(s, i, "Something went wrong while building the leaderboard. Try again later.")
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	}); err != nil {
		log.Printf("❌ Failed to respond to /%s command: %v", data.Name, err)
	}
}

func (h *DiscordEventsHandler) buildCommandResponse(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	data discordgo.ApplicationCommandInteractionData,
) (*discordgo.MessageEmbed, error) {
	switch data.Name {
	case commandTopUsers:
		rows, err := h.leaderboardService.TopReceivers(ctx, i.GuildID)
		if err != nil {
			return nil, err
		}
		return renderUserLeaderboard("Top Reacted Users", rows), nil

	case commandMyTopReactions:
		invoker := interactionUserID(i)
		rows, err := h.leaderboardService.TopEmojisSentByUser(ctx, i.GuildID, invoker)
		if err != nil {
			return nil, err
		}
		return renderEmojiLeaderboard("Your Most Used Reactions", rows), nil

	case commandTopEmojiUsers:
		emoji, err := parseEmojiArg(stringOption(data, "emoji"))
		if err != nil {
			return nil, err
		}
		rows, err := h.leaderboardService.TopReceiversByEmoji(ctx, i.GuildID, emoji)
		if err != nil {
			return nil, err
		}
		return renderUserLeaderboard(fmt.Sprintf("Top %s Receivers", emoji.String()), rows), nil

	case commandServerTopReactions:
		rows, err := h.leaderboardService.TopEmojis(ctx, i.GuildID)
		if err != nil {
			return nil, err
		}
		return renderEmojiLeaderboard("Server Top Reactions", rows), nil

	case commandUserTopReceived:
		target := userOption(data, "user")
		if target == "" {
			target = interactionUserID(i)
		}
		rows, err := h.leaderboardService.TopEmojisReceivedByUser(ctx, i.GuildID, target)
		if err != nil {
			return nil, err
		}
		return renderEmojiLeaderboard(fmt.Sprintf("Top Reactions Received by <@%s>", target), rows), nil

	case commandTopMessages:
		maybeEmoji := mo.None[models.Emoji]()
		title := "Most Reacted Messages"
		if raw := stringOption(data, "emoji"); raw != "" {
			parsed, err := parseEmojiArg(raw)
			if err != nil {
				return nil, err
			}
			maybeEmoji = mo.Some(parsed)
			title = fmt.Sprintf("Most %s Reacted Messages", parsed.String())
		}
		rows, err := h.leaderboardService.TopMessages(ctx, i.GuildID, maybeEmoji)
		if err != nil {
			return nil, err
		}
		return renderMessageLeaderboard(title, i.GuildID, rows), nil
	}

	return nil, fmt.Errorf("unknown command: %s", data.Name)
}

func (h *DiscordEventsHandler) respondEphemeral(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	message string,
) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("❌ Failed to send ephemeral response: %v", err)
	}
}

// parseEmojiArg interprets a raw command argument as either a custom emoji
// mention or a unicode emoji literal.
func parseEmojiArg(raw string) (models.Emoji, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.Emoji{}, fmt.Errorf("emoji argument is empty")
	}

	if match := customEmojiPattern.FindStringSubmatch(trimmed); match != nil {
		return models.CustomEmoji(match[2], match[3]), nil
	}

	if strings.ContainsAny(trimmed, "<>:@#") {
		return models.Emoji{}, fmt.Errorf("unrecognized emoji argument: %q", trimmed)
	}

	return models.UnicodeEmoji(trimmed), nil
}

func stringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

func userOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionUser {
			if user := opt.UserValue(nil); user != nil {
				return user.ID
			}
		}
	}
	return ""
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func renderUserLeaderboard(title string, rows []*models.UserNetCount) *discordgo.MessageEmbed {
	if len(rows) == 0 {
		return emptyLeaderboardEmbed(title)
	}

	var b strings.Builder
	for idx, row := range rows {
		fmt.Fprintf(&b, "%d. **%s** — %d\n", idx+1, row.Tag(), row.NetCount)
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: b.String(),
		Color:       0x5865F2,
	}
}

func renderEmojiLeaderboard(title string, rows []*models.EmojiNetCount) *discordgo.MessageEmbed {
	if len(rows) == 0 {
		return emptyLeaderboardEmbed(title)
	}

	var b strings.Builder
	for idx, row := range rows {
		fmt.Fprintf(&b, "%d. %s — %d\n", idx+1, row.Emoji().String(), row.NetCount)
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: b.String(),
		Color:       0x5865F2,
	}
}

func renderMessageLeaderboard(title, guildID string, rows []*models.MessageNetCount) *discordgo.MessageEmbed {
	if len(rows) == 0 {
		return emptyLeaderboardEmbed(title)
	}

	var b strings.Builder
	for idx, row := range rows {
		link := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, row.ChannelID, row.MessageID)
		fmt.Fprintf(&b, "%d. [message](%s) by **%s** — %d\n", idx+1, link, row.AuthorTag(), row.NetCount)
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: b.String(),
		Color:       0x5865F2,
	}
}

func emptyLeaderboardEmbed(title string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: "No reactions recorded yet.",
		Color:       0x5865F2,
	}
}
