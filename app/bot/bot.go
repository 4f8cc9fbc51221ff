package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lysyi3m/ilias-herald/app/notify"
)

const commandTimeout = 30 * time.Second

var _ notify.Sink = (*Bot)(nil)

// Bot posts notifications to Discord and answers chat commands.
type Bot struct {
	session  *discordgo.Session
	channels Channels
	state    DebugState
}

func New(token string, channels Channels, state DebugState) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Discord session ready", "user", r.User.Username)
	})

	return &Bot{
		session:  session,
		channels: channels,
		state:    state,
	}, nil
}

// HandleCommands registers commander for incoming messages. It must be
// called before Open.
func (b *Bot) HandleCommands(commander *Commander) {
	b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		chat := &messageChat{session: s, message: m}
		if err := commander.Handle(ctx, chat, m.Content); err != nil {
			slog.Error("Command failed", "channel", m.ChannelID, "user", m.Author.ID, "content", m.Content, "error", err)
		}
	})
}

func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) Announce(ctx context.Context, a notify.Announcement) error {
	channelID := b.channels.PrimaryFor(b.state.DebugMode())
	if _, err := b.session.ChannelMessageSendEmbed(channelID, AnnouncementEmbed(a), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send announcement to %s: %w", channelID, err)
	}
	return nil
}

func (b *Bot) NotifyDeadline(ctx context.Context, text string) error {
	channelID := b.channels.AssignmentFor(b.state.DebugMode())
	if _, err := b.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send deadline notice to %s: %w", channelID, err)
	}
	return nil
}

func AnnouncementEmbed(a notify.Announcement) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       a.Title,
		Color:       a.Color,
		URL:         a.URL,
		Description: a.Description,
	}
	if a.Author != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: a.Author}
	}
	return embed
}
