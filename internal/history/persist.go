package history

import (
	"errors"
	"os"
	"time"

	"github.com/grendel/noprints/internal/logging"
	"github.com/grendel/noprints/internal/ports"
)

// Options configures a persistent store
type Options struct {
	Capacity     int
	PersistLimit int
	// Path of the sealed snapshot file
	Path           string
	Secrets        ports.SecretStore
	KeyringService string
	KeyringAccount string
}

// snapshot is the persisted form of the store
type snapshot struct {
	History         []*Item            `json:"history"`
	Pinned          []string           `json:"pinned"`
	SensitiveExpiry map[string]float64 `json:"sensitive_expiry"`
}

// Open returns a store backed by the snapshot at opts.Path, sealed with a key
// kept in opts.Secrets. An unreadable snapshot leaves the store empty. Only a
// failure to obtain the key is returned as an error.
func Open(opts Options) (*Store, error) {
	key, err := loadKey(opts.Secrets, opts.KeyringService, opts.KeyringAccount)
	if err != nil {
		return nil, err
	}
	v, err := newVault(opts.Path, key)
	if err != nil {
		return nil, err
	}

	s := New(opts.Capacity)
	if opts.PersistLimit > 0 {
		s.limit = opts.PersistLimit
	}
	s.vault = v

	snap, err := v.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		logging.Warnf("starting with empty history: %v", err)
	default:
		s.restore(snap)
	}
	return s, nil
}

// snapshot captures the most recent items and their bookkeeping. Callers
// hold s.mu.
func (s *Store) snapshot() snapshot {
	n := min(len(s.items), s.limit)
	snap := snapshot{
		History:         s.items[:n],
		Pinned:          s.pinned,
		SensitiveExpiry: make(map[string]float64, len(s.expiry)),
	}
	if snap.Pinned == nil {
		snap.Pinned = []string{}
	}
	for id, deadline := range s.expiry {
		snap.SensitiveExpiry[id] = epochSeconds(deadline)
	}
	return snap
}

// restore replaces the store contents with snap, dropping bookkeeping for
// ids that were not persisted, then clears anything already expired.
func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.items[:0]
	present := make(map[string]bool)
	for _, it := range snap.History {
		if it == nil || it.ID == "" || present[it.ID] || len(s.items) >= s.capacity {
			continue
		}
		present[it.ID] = true
		s.items = append(s.items, it)
	}

	s.pinned = s.pinned[:0]
	for _, id := range snap.Pinned {
		if present[id] {
			s.pinned = append(s.pinned, id)
		}
	}

	clear(s.expiry)
	for id, secs := range snap.SensitiveExpiry {
		if present[id] {
			s.expiry[id] = fromEpochSeconds(secs)
		}
	}

	if n := s.clearExpired(); n > 0 {
		logging.Debugf("dropped %d expired history items on load", n)
	}
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromEpochSeconds(secs float64) time.Time {
	return time.Unix(0, int64(secs*float64(time.Second)))
}
