package config

import (
	"fmt"
	"sync"
)

// Store owns the live configuration behind a lock.  Sessions call
// Snapshot at start time and never observe later edits; the setconfig
// command goes through Set, which validates, applies, and persists.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  Config
}

// Open loads the store from path, overlaying environment variables.
// When the file does not exist it is created with defaults so that
// later saves have a home.
func Open(path string) (*Store, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	LoadFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	s := &Store{path: path, cfg: cfg}
	if err := SaveFile(path, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns a copy of the current configuration.  The port
// slice is copied too; callers may hold the snapshot for a session's
// lifetime without observing later edits.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cfg
	cfg.DefaultPorts = append([]int(nil), s.cfg.DefaultPorts...)
	return cfg
}

// Set applies a typed assignment to the named key and persists the
// result.  On conversion or validation failure nothing changes.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	next.DefaultPorts = append([]int(nil), s.cfg.DefaultPorts...)
	if err := next.Set(key, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if err := SaveFile(s.path, next); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

// Get returns the display value for key (secrets redacted).
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Get(key)
}

// Credentials returns the current Telegram token and chat ID.  The
// notifier reads these at send time so a setconfig takes effect for
// the next message, matching how mid-session edits behave elsewhere.
func (s *Store) Credentials() (token, chatID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.TelegramToken, s.cfg.TelegramChatID
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }
