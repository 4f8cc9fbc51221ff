package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/lysyi3m/ilias-herald/app/tasks"
)

const (
	commandPrefix = "?"

	CommandPurge           = "purge"
	CommandReloadRSS       = "reloadrss"
	CommandHelp            = "help"
	CommandDebugModeToggle = "debugmodetoggle"
	CommandGetDebugMode    = "getdebugmode"

	maxPurge  = 99
	helpColor = 0x037a90
)

const (
	replyNoPermission = "Keine Berechtigung!"
	replyNotGuildText = "Das hier ist kein Textchannel auf einem Server!"
	replyNoAmount     = "Keine Anzahl angegeben!"
	replyNotANumber   = "Keine Zahl angegeben!"
	replyTooMany      = "Du kannst nicht mehr als 99 Nachrichten auf ein mal löschen!"
	replyTooFew       = "Du musst mindestens eine Nachricht löschen!"
	replyReloadFailed = "Der RSS Feed konnte nicht neu geladen werden!"
	replyToggleFailed = "Der Debug Modus konnte nicht gespeichert werden!"
)

// Chat is the conversation a command was issued in.
type Chat interface {
	Reply(ctx context.Context, text string) error
	SendEmbed(ctx context.Context, embed *discordgo.MessageEmbed) error
	// HasPermission reports whether the issuing user holds permission
	// in the channel.
	HasPermission(ctx context.Context, permission int64) (bool, error)
	IsGuildText(ctx context.Context) (bool, error)
	// DeleteRecent deletes the count most recent messages of the channel.
	DeleteRecent(ctx context.Context, count int) error
}

type Reloader interface {
	EnqueueReload(trigger tasks.Trigger) error
}

type DebugState interface {
	DebugMode() bool
	ToggleDebugMode() (bool, error)
}

type Commander struct {
	reloader Reloader
	state    DebugState
}

func NewCommander(reloader Reloader, state DebugState) *Commander {
	return &Commander{
		reloader: reloader,
		state:    state,
	}
}

// ParseCommand splits a message into command name and arguments. ok is
// false when the message does not start with the command prefix.
func ParseCommand(content string) (name string, args []string, ok bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], commandPrefix) {
		return "", nil, false
	}
	return strings.TrimPrefix(fields[0], commandPrefix), fields[1:], true
}

// Handle runs the command in content. Messages that are not a known
// command are ignored.
func (c *Commander) Handle(ctx context.Context, chat Chat, content string) error {
	name, args, ok := ParseCommand(content)
	if !ok {
		return nil
	}

	switch name {
	case CommandPurge:
		return c.purge(ctx, chat, args)
	case CommandReloadRSS:
		return c.guarded(ctx, chat, c.reload)
	case CommandHelp:
		return c.guarded(ctx, chat, c.help)
	case CommandDebugModeToggle:
		return c.guarded(ctx, chat, c.toggleDebugMode)
	case CommandGetDebugMode:
		return c.guarded(ctx, chat, c.getDebugMode)
	default:
		return nil
	}
}

func (c *Commander) guarded(ctx context.Context, chat Chat, run func(context.Context, Chat) error) error {
	allowed, err := chat.HasPermission(ctx, discordgo.PermissionManageMessages)
	if err != nil {
		return fmt.Errorf("failed to check permissions: %w", err)
	}
	if !allowed {
		return chat.Reply(ctx, replyNoPermission)
	}
	return run(ctx, chat)
}

func (c *Commander) purge(ctx context.Context, chat Chat, args []string) error {
	guildText, err := chat.IsGuildText(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up channel: %w", err)
	}
	if !guildText {
		return chat.Reply(ctx, replyNotGuildText)
	}

	return c.guarded(ctx, chat, func(ctx context.Context, chat Chat) error {
		// "?purge 1 5" deletes 15 messages.
		raw := strings.Join(args, "")
		if raw == "" {
			return chat.Reply(ctx, replyNoAmount)
		}

		amount, err := strconv.Atoi(raw)
		if err != nil {
			return chat.Reply(ctx, replyNotANumber)
		}
		if amount > maxPurge {
			return chat.Reply(ctx, replyTooMany)
		}
		if amount < 1 {
			return chat.Reply(ctx, replyTooFew)
		}

		// One more for the command message itself.
		if err := chat.DeleteRecent(ctx, amount+1); err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		slog.Info("Messages purged", "count", amount)
		return nil
	})
}

func (c *Commander) reload(ctx context.Context, chat Chat) error {
	if err := c.reloader.EnqueueReload(tasks.TriggerCommand); err != nil {
		slog.Error("Failed to enqueue reload", "error", err)
		return chat.Reply(ctx, replyReloadFailed)
	}
	return nil
}

func (c *Commander) help(ctx context.Context, chat Chat) error {
	return chat.SendEmbed(ctx, HelpEmbed())
}

func (c *Commander) toggleDebugMode(ctx context.Context, chat Chat) error {
	enabled, err := c.state.ToggleDebugMode()
	if err != nil {
		slog.Error("Failed to toggle debug mode", "error", err)
		return chat.Reply(ctx, replyToggleFailed)
	}
	slog.Info("Debug mode toggled", "enabled", enabled)
	return chat.Reply(ctx, fmt.Sprintf("DEBUGMODE is now %t", enabled))
}

func (c *Commander) getDebugMode(ctx context.Context, chat Chat) error {
	return chat.Reply(ctx, fmt.Sprintf("DEBUGMODE is %t", c.state.DebugMode()))
}

func HelpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color: helpColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "?purge <1-99>", Value: "Löscht 1-99 Nachrichten"},
			{Name: "?reloadrss", Value: "Läd den RSS Feed manuell neu"},
			{Name: "?debugmodetoggle", Value: "Schaltet den Debug Modus ein/aus"},
			{Name: "?getdebugmode", Value: "Zeigt an, ob der Debugmodus gerade aktiviert/deaktiviert ist"},
		},
	}
}
