package tasks

import (
	"net/http"
	"time"

	"github.com/lysyi3m/ilias-herald/app/catalog"
	"github.com/lysyi3m/ilias-herald/app/database"
	"github.com/lysyi3m/ilias-herald/app/feed"
	"github.com/lysyi3m/ilias-herald/app/notify"
)

type Settings struct {
	URL       string
	StoreTime int // retention window in days
	Timeout   time.Duration
	UserAgent string
}

// Factory holds the collaborators shared by every task.
type Factory struct {
	settings   Settings
	httpClient *http.Client
	parser     *feed.Parser
	catalog    *catalog.Catalog
	store      database.DedupStore
	sink       notify.Sink
	now        func() time.Time
}

func NewFactory(settings Settings, httpClient *http.Client, parser *feed.Parser,
	c *catalog.Catalog, store database.DedupStore, sink notify.Sink) *Factory {
	return &Factory{
		settings:   settings,
		httpClient: httpClient,
		parser:     parser,
		catalog:    c,
		store:      store,
		sink:       sink,
		now:        time.Now,
	}
}

func (f *Factory) NewReloadFeedTask(trigger Trigger) *ReloadFeedTask {
	return &ReloadFeedTask{
		Task:    NewTask(TaskTypeReloadFeed, trigger),
		factory: f,
	}
}

func (f *Factory) NewCleanupStoreTask(trigger Trigger) *CleanupStoreTask {
	return &CleanupStoreTask{
		Task:    NewTask(TaskTypeCleanupStore, trigger),
		factory: f,
	}
}

// StoreSize reports the number of dedup entries.
func (f *Factory) StoreSize() int {
	return f.store.Len()
}
