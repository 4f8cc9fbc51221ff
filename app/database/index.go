package database

import (
	"log/slog"
	"maps"
	"sync"
	"time"
)

// index is the in-memory mapping shared by all store backends.
type index struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func (ix *index) Contains(link string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.entries[link]
	return ok
}

func (ix *index) Record(link, isoDate string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries[link] = Entry{ISODate: isoDate}
}

func (ix *index) Forget(link string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.entries, link)
}

// EvictOlderThan removes entries dated strictly before cutoff and returns
// how many were removed. Entries with an unparseable date are kept.
func (ix *index) EvictOlderThan(cutoff time.Time) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	evicted := 0
	for link, entry := range ix.entries {
		seenAt, err := time.Parse(time.RFC3339, entry.ISODate)
		if err != nil {
			slog.Warn("Keeping store entry with invalid date", "link", link, "iso_date", entry.ISODate)
			continue
		}
		if seenAt.Before(cutoff) {
			delete(ix.entries, link)
			evicted++
		}
	}
	return evicted
}

func (ix *index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

func (ix *index) snapshot() map[string]Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return maps.Clone(ix.entries)
}
