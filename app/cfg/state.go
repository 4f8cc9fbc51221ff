package cfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// State holds settings that change at runtime through admin commands.
// Every setter writes the file before returning.
type State struct {
	path string
	mu   sync.RWMutex
	data stateData
}

type stateData struct {
	DebugMode bool `yaml:"debug_mode"`
}

// LoadState reads the state file at path. A missing file yields defaults.
func LoadState(path string) (*State, error) {
	s := &State{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	return s, nil
}

func (s *State) DebugMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.DebugMode
}

// SetDebugMode persists the new value. The in-memory value is only
// changed when the write succeeds.
func (s *State) SetDebugMode(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data
	next.DebugMode = enabled
	if err := s.save(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// ToggleDebugMode flips debug mode and returns the new value.
func (s *State) ToggleDebugMode() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data
	next.DebugMode = !next.DebugMode
	if err := s.save(next); err != nil {
		return s.data.DebugMode, err
	}
	s.data = next
	return next.DebugMode, nil
}

func (s *State) save(data stateData) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
