package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

var _ Chat = (*messageChat)(nil)

// messageChat answers in the channel of a received message.
type messageChat struct {
	session *discordgo.Session
	message *discordgo.MessageCreate
}

func (c *messageChat) Reply(ctx context.Context, text string) error {
	_, err := c.session.ChannelMessageSendReply(c.message.ChannelID, text, c.message.Reference(), discordgo.WithContext(ctx))
	return err
}

func (c *messageChat) SendEmbed(ctx context.Context, embed *discordgo.MessageEmbed) error {
	_, err := c.session.ChannelMessageSendEmbed(c.message.ChannelID, embed, discordgo.WithContext(ctx))
	return err
}

func (c *messageChat) HasPermission(ctx context.Context, permission int64) (bool, error) {
	// Direct messages carry no guild permissions.
	if c.message.GuildID == "" {
		return false, nil
	}

	permissions, err := c.session.UserChannelPermissions(c.message.Author.ID, c.message.ChannelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, err
	}
	return permissions&permission == permission, nil
}

func (c *messageChat) IsGuildText(ctx context.Context) (bool, error) {
	if c.message.GuildID == "" {
		return false, nil
	}

	channel, err := c.session.State.Channel(c.message.ChannelID)
	if err != nil {
		channel, err = c.session.Channel(c.message.ChannelID, discordgo.WithContext(ctx))
		if err != nil {
			return false, err
		}
	}
	return channel.Type == discordgo.ChannelTypeGuildText, nil
}

func (c *messageChat) DeleteRecent(ctx context.Context, count int) error {
	messages, err := c.session.ChannelMessages(c.message.ChannelID, count, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}

	switch len(ids) {
	case 0:
		return nil
	case 1:
		return c.session.ChannelMessageDelete(c.message.ChannelID, ids[0], discordgo.WithContext(ctx))
	default:
		return c.session.ChannelMessagesBulkDelete(c.message.ChannelID, ids, discordgo.WithContext(ctx))
	}
}
