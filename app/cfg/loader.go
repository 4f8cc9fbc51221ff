package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

const (
	StoreBackendJSON   = "json"
	StoreBackendSQLite = "sqlite"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed configuration
	FeedURL        string `long:"feed-url" env:"FEED_URL" description:"RSS feed URL to poll (required)" required:"true"`
	StoreTime      int    `long:"store-time" env:"STORE_TIME" default:"30" description:"Days to keep seen feed items in the dedup store"`
	ReloadInterval int    `long:"reload-interval" env:"RELOAD_INTERVAL" default:"60" description:"Feed reload interval in seconds"`
	FetchTimeout   int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Feed fetch timeout in seconds"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"ILIAS Herald/1.0" description:"User agent string for HTTP requests"`

	// Storage configuration
	DataDir      string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory holding the dedup store"`
	StoreBackend string `long:"store-backend" env:"STORE_BACKEND" default:"json" choice:"json" choice:"sqlite" description:"Dedup store backend"`
	TablesDir    string `long:"tables-dir" env:"TABLES_DIR" default:"./tables" description:"Directory containing subjects.yml, statuses.yml and filetypes.yml"`
	StateFile    string `long:"state-file" env:"STATE_FILE" description:"Runtime state file (defaults to <data-dir>/state.yml)"`

	// Discord configuration
	DiscordToken             string `long:"discord-token" env:"DISCORD_TOKEN" description:"Discord bot token (notifications are logged when empty)"`
	RSSChannelID             string `long:"rss-channel" env:"RSS_CHANNEL_ID" description:"Channel receiving feed announcements"`
	AssignmentChannelID      string `long:"assignment-channel" env:"ASSIGNMENT_CHANNEL_ID" description:"Channel receiving assignment deadlines"`
	DebugChannelID           string `long:"debug-channel" env:"DEBUG_CHANNEL_ID" description:"Channel receiving announcements in debug mode"`
	DebugAssignmentChannelID string `long:"debug-assignment-channel" env:"DEBUG_ASSIGNMENT_CHANNEL_ID" description:"Channel receiving deadlines in debug mode (defaults to debug channel)"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	Timezone  string `long:"timezone" env:"TZ" default:"Europe/Berlin" description:"Timezone for dates and the daily cleanup (e.g., UTC, Europe/Berlin)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"Log output format"`
}

func Load() (*Cfg, error) {
	return load(nil)
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		FeedURL:                  raw.FeedURL,
		StoreTime:                raw.StoreTime,
		ReloadInterval:           raw.ReloadInterval,
		FetchTimeout:             raw.FetchTimeout,
		UserAgent:                raw.UserAgent,
		DataDir:                  raw.DataDir,
		StoreBackend:             raw.StoreBackend,
		TablesDir:                raw.TablesDir,
		StateFile:                raw.StateFile,
		DiscordToken:             raw.DiscordToken,
		RSSChannelID:             raw.RSSChannelID,
		AssignmentChannelID:      raw.AssignmentChannelID,
		DebugChannelID:           raw.DebugChannelID,
		DebugAssignmentChannelID: cmp.Or(raw.DebugAssignmentChannelID, raw.DebugChannelID),
		Port:                     raw.Port,
		APIAccessKey:             raw.APIAccessKey,
		Timezone:                 raw.Timezone,
		Debug:                    raw.Debug,
		LogFormat:                raw.LogFormat,
		Version:                  GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.StoreTime <= 0 {
		return fmt.Errorf("store time must be positive, got %d", cfg.StoreTime)
	}
	if cfg.ReloadInterval < 0 {
		return fmt.Errorf("reload interval must be non-negative")
	}
	if cfg.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout must be non-negative")
	}
	if cfg.DiscordToken != "" && (cfg.RSSChannelID == "" || cfg.AssignmentChannelID == "") {
		return fmt.Errorf("rss and assignment channel IDs are required when a discord token is set")
	}
	if cfg.DiscordToken != "" && cfg.DebugChannelID == "" {
		return fmt.Errorf("debug channel ID is required when a discord token is set")
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
