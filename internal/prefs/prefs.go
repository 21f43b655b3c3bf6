// Package prefs stores the user's boolean feature toggles in a YAML file
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Preference keys
const (
	ClipboardProtection = "clipboard_protection_enabled"
	AutoExpireSensitive = "auto_expire_sensitive"
	ShowNotifications   = "show_notifications"
	BlurSensitive       = "blur_sensitive"
)

// ErrUnknownKey is returned when setting a preference that does not exist
var ErrUnknownKey = errors.New("unknown preference")

// Defaults returns the value of every preference on a fresh install
func Defaults() map[string]bool {
	return map[string]bool{
		ClipboardProtection: true,
		AutoExpireSensitive: true,
		ShowNotifications:   false,
		BlurSensitive:       true,
	}
}

// Store holds preferences in memory and persists them on Set. It is safe for
// concurrent use.
type Store struct {
	path   string
	mu     sync.RWMutex
	values map[string]bool
}

// Open loads preferences from path. A missing file yields the defaults.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: Defaults()}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file
func (s *Store) Path() string { return s.path }

// Reload re-reads the backing file. Keys absent from the file keep their
// defaults and unknown keys are ignored.
func (s *Store) Reload() error {
	values := Defaults()
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read preferences: %w", err)
	default:
		var file map[string]bool
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse preferences %s: %w", s.path, err)
		}
		for k, v := range file {
			if _, known := values[k]; known {
				values[k] = v
			}
		}
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Bool returns a preference value. Unknown keys read as false.
func (s *Store) Bool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Set changes a preference and writes the file
func (s *Store) Set(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, known := s.values[key]; !known {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	s.values[key] = value
	return s.save()
}

// All returns a copy of every preference
func (s *Store) All() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Keys returns the preference names in sorted order
func Keys() []string {
	keys := make([]string, 0, 4)
	for k := range Defaults() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) save() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}
