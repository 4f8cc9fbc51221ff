package database

import (
	"fmt"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open loads the dedup store for the given backend.
func Open(backend, path string) (DedupStore, error) {
	switch backend {
	case BackendJSON, "":
		store, err := OpenFileStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendSQLite:
		store, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
