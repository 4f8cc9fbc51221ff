package cfg

import (
	"path/filepath"
	"time"
)

type Cfg struct {
	// Feed configuration
	FeedURL        string
	StoreTime      int // days
	ReloadInterval int // seconds
	FetchTimeout   int // seconds
	UserAgent      string

	// Storage configuration
	DataDir      string
	StoreBackend string
	TablesDir    string
	StateFile    string

	// Discord configuration
	DiscordToken             string
	RSSChannelID             string
	AssignmentChannelID      string
	DebugChannelID           string
	DebugAssignmentChannelID string

	// Application configuration
	Port         string
	APIAccessKey string

	// Application metadata
	Timezone  string
	Debug     bool
	LogFormat string
	Version   string
}

func (c *Cfg) GetReloadInterval() time.Duration {
	if c.ReloadInterval <= 0 {
		return time.Minute
	}
	return time.Duration(c.ReloadInterval) * time.Second
}

func (c *Cfg) GetFetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.FetchTimeout) * time.Second
}

// StorePath returns the dedup store location for the configured backend.
func (c *Cfg) StorePath() string {
	if c.StoreBackend == StoreBackendSQLite {
		return filepath.Join(c.DataDir, "messagesstore.db")
	}
	return filepath.Join(c.DataDir, "messagesstore.json")
}

func (c *Cfg) GetStateFile() string {
	if c.StateFile != "" {
		return c.StateFile
	}
	return filepath.Join(c.DataDir, "state.yml")
}
