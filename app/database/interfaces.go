package database

import (
	"time"
)

// DedupStore remembers which feed items have already been announced.
// Mutations only touch memory; Persist writes the complete mapping.
type DedupStore interface {
	Contains(link string) bool
	Record(link, isoDate string)
	Forget(link string)
	EvictOlderThan(cutoff time.Time) int
	Len() int

	Persist() error
	Close() error
}

var (
	_ DedupStore = (*FileStore)(nil)
	_ DedupStore = (*SQLiteStore)(nil)
)
