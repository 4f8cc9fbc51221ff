package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the dedup mapping in a JSON document of the form
// {"<link>": {"isoDate": "<date>"}}.
type FileStore struct {
	index
	path string
}

func OpenFileStore(path string) (*FileStore, error) {
	entries := make(map[string]Entry)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read store file: %w", err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse store file: %w", err)
		}
		// A "null" document decodes into a nil map.
		if entries == nil {
			entries = make(map[string]Entry)
		}
	}

	return &FileStore{
		index: index{entries: entries},
		path:  path,
	}, nil
}

// Persist replaces the store file through a temporary file in the same
// directory, so readers never observe a partial document.
func (s *FileStore) Persist() error {
	data, err := json.MarshalIndent(s.snapshot(), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary store file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close store file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
