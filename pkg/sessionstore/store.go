// Package sessionstore persists the last session id so the client can
// resume the same server-side conversation across restarts. The store is a
// single slot in ~/.config/deepchat/session.yaml.
package sessionstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/deepagents/deepchat/pkg/paths"
)

// CurrentVersion is the current version of the session file format
const CurrentVersion = "v1"

// Store holds the persisted session state.
type Store struct {
	path string

	// Version is the file format version
	Version string `yaml:"version,omitempty"`
	// SessionID is the id of the last session the client was attached to
	SessionID string `yaml:"session_id,omitempty"`
}

// Path returns the path to the session file
func Path() string {
	return filepath.Join(paths.GetConfigDir(), "session.yaml")
}

// Load reads the session file, returning an empty store if it doesn't exist.
func Load() (*Store, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (*Store, error) {
	store := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := yaml.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return store, nil
}

// ID returns the stored session id, or "" when none is stored.
func (s *Store) ID() string {
	return s.SessionID
}

// Set stores a session id and writes the file.
func (s *Store) Set(sessionID string) error {
	s.SessionID = sessionID
	return s.save()
}

// Clear forgets the stored session id.
func (s *Store) Clear() error {
	s.SessionID = ""
	return s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.Version = CurrentVersion

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}

	return atomic.WriteFile(s.path, bytes.NewReader(data))
}
