package api

import (
	"time"

	"github.com/lysyi3m/ilias-herald/app/catalog"
	"github.com/lysyi3m/ilias-herald/app/tasks"
)

type DebugState interface {
	DebugMode() bool
	ToggleDebugMode() (bool, error)
}

type StoreSizer interface {
	StoreSize() int
}

var _ StoreSizer = (*tasks.Factory)(nil)

type Handler struct {
	scheduler tasks.TaskSchedulerInterface
	state     DebugState
	store     StoreSizer
	catalog   *catalog.Catalog
	feedURL   string
	version   string
	startedAt time.Time
}
