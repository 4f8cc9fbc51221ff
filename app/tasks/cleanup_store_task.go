package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/ilias-herald/app/metrics"
)

type CleanupStoreTask struct {
	Task
	factory *Factory
	Evicted int
}

// Execute drops dedup entries older than the retention window and
// persists the store.
func (t *CleanupStoreTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f := t.factory
	cutoff := f.now().AddDate(0, 0, -f.settings.StoreTime)

	t.Evicted = f.store.EvictOlderThan(cutoff)
	metrics.EntriesEvicted(t.Evicted)

	if err := f.store.Persist(); err != nil {
		return fmt.Errorf("failed to persist dedup store: %w", err)
	}
	metrics.SetStoreEntries(f.store.Len())

	slog.Info("Task completed",
		"type", "CleanedStore",
		"trigger", string(t.Trigger),
		"duration", t.GetDuration(),
		"evicted", t.Evicted,
		"remaining", f.store.Len(),
		"cutoff", cutoff.Format("2006-01-02"))

	return nil
}
