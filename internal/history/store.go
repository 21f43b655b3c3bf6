// Package history keeps recent clipboard items in memory, expires sensitive
// ones and persists a sealed snapshot to disk
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grendel/noprints/internal/logging"
	"github.com/grendel/noprints/pkg/security"
)

const (
	DefaultCapacity     = 50
	DefaultPersistLimit = 20

	// defaultExpiry applies when a verdict asks for expiry without a duration
	defaultExpiry = 60 * time.Second
	// expiringSoon is the window counted by Statistics.ExpiringSoon
	expiringSoon = 30 * time.Second
)

// ErrItemNotFound is returned for ids that are not in the store
var ErrItemNotFound = errors.New("history item not found")

// Store is the clipboard history. Items are kept most recent first. All
// methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	items    []*Item
	expiry   map[string]time.Time
	pinned   []string
	capacity int
	limit    int
	vault    *vault
	now      func() time.Time
}

// New returns an empty in-memory store. A non-positive capacity uses the
// default of 50.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		expiry:   make(map[string]time.Time),
		capacity: capacity,
		limit:    DefaultPersistLimit,
		now:      time.Now,
	}
}

// Add records text. Empty text is ignored. Text already in the store is moved
// to the front instead of duplicated.
func (s *Store) Add(text string, meta Metadata) (Item, bool) {
	if text == "" {
		return Item{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	for i, it := range s.items {
		if it.Text != text {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		it.Timestamp = now
		it.AccessCount++
		s.items = append([]*Item{it}, s.items...)
		s.save()
		return *it, true
	}

	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	verdict := meta.SecurityAnalysis
	it := &Item{
		ID:          newID(text, now),
		Text:        text,
		Timestamp:   now,
		AccessCount: 1,
		Metadata:    meta,
		DisplayText: security.DisplayText(text, verdict),
		Icon:        security.Icon(verdict),
	}
	if verdict != nil {
		if verdict.ShouldExpire {
			ttl := time.Duration(verdict.ExpireSeconds) * time.Second
			if ttl <= 0 {
				ttl = defaultExpiry
			}
			deadline := now.Add(ttl)
			it.ExpireAt = &deadline
			s.expiry[it.ID] = deadline
		}
		it.IsSensitive = verdict.IsSensitive()
	}

	s.items = append([]*Item{it}, s.items...)
	if len(s.items) > s.capacity {
		for _, evicted := range s.items[s.capacity:] {
			s.forget(evicted.ID)
		}
		s.items = s.items[:s.capacity]
	}
	s.save()
	return *it, true
}

// Get returns the item with id and counts the access
func (s *Store) Get(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			it.AccessCount++
			return *it, true
		}
	}
	return Item{}, false
}

// GetRecent returns up to count live items, most recent first. Sensitive
// items are skipped unless includeSensitive is set.
func (s *Store) GetRecent(count int, includeSensitive bool) []Item {
	if count <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	out := make([]Item, 0, min(count, len(s.items)))
	for _, it := range s.items {
		if len(out) >= count {
			break
		}
		if s.visible(it, now, includeSensitive) {
			out = append(out, *it)
		}
	}
	return out
}

// Search returns live items whose text or metadata contains query, ignoring case
func (s *Store) Search(query string, includeSensitive bool) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	query = strings.ToLower(query)
	now := s.now()
	var out []Item
	for _, it := range s.items {
		if !s.visible(it, now, includeSensitive) {
			continue
		}
		if strings.Contains(strings.ToLower(it.Text), query) {
			out = append(out, *it)
			continue
		}
		for _, v := range it.Metadata.values() {
			if strings.Contains(strings.ToLower(v), query) {
				out = append(out, *it)
				break
			}
		}
	}
	return out
}

// BitcoinItems returns live items containing Bitcoin data
func (s *Store) BitcoinItems() []Item {
	return s.filter((*Item).HasBitcoin)
}

// NostrItems returns live items containing Nostr data
func (s *Store) NostrItems() []Item {
	return s.filter((*Item).HasNostr)
}

func (s *Store) filter(keep func(*Item) bool) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var out []Item
	for _, it := range s.items {
		if !s.expired(it.ID, now) && keep(it) {
			out = append(out, *it)
		}
	}
	return out
}

// ClearSensitive drops every sensitive item and all pending expiries
func (s *Store) ClearSensitive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.IsSensitive {
			s.pinned = slices.DeleteFunc(s.pinned, func(id string) bool { return id == it.ID })
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	clear(s.expiry)
	s.save()
}

// ClearExpired removes items whose deadline has passed and returns how many
func (s *Store) ClearExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearExpired()
}

func (s *Store) clearExpired() int {
	now := s.now()
	matured := make(map[string]struct{})
	for id, deadline := range s.expiry {
		if !now.Before(deadline) {
			matured[id] = struct{}{}
		}
	}
	if len(matured) == 0 {
		return 0
	}

	for id := range matured {
		s.forget(id)
	}
	s.items = slices.DeleteFunc(s.items, func(it *Item) bool {
		_, gone := matured[it.ID]
		return gone
	})
	s.save()
	return len(matured)
}

// Pin keeps an item from expiring. The item's ExpireAt is left as is.
func (s *Store) Pin(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(id) < 0 {
		return false
	}
	if !slices.Contains(s.pinned, id) {
		s.pinned = append(s.pinned, id)
		delete(s.expiry, id)
		s.save()
	}
	return true
}

// Unpin removes the pin. Expiry is not restored.
func (s *Store) Unpin(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(id) < 0 {
		return false
	}
	if i := slices.Index(s.pinned, id); i >= 0 {
		s.pinned = slices.Delete(s.pinned, i, i+1)
		s.save()
	}
	return true
}

// IsPinned reports whether id is pinned
func (s *Store) IsPinned(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.pinned, id)
}

// Delete removes an item and its bookkeeping
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.forget(id)
	s.save()
	return true
}

// ClearAll empties the store
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.pinned = nil
	clear(s.expiry)
	s.save()
}

// Statistics counts items by kind
func (s *Store) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	st := Statistics{Total: len(s.items), Pinned: len(s.pinned)}
	for _, it := range s.items {
		if it.IsSensitive {
			st.Sensitive++
		}
		if s.expired(it.ID, now) {
			continue
		}
		if it.HasBitcoin() {
			st.Bitcoin++
		}
		if it.HasNostr() {
			st.Nostr++
		}
	}
	for _, deadline := range s.expiry {
		if deadline.Sub(now) < expiringSoon {
			st.ExpiringSoon++
		}
	}
	return st
}

// Len returns the number of stored items, expired or not
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) visible(it *Item, now time.Time, includeSensitive bool) bool {
	if s.expired(it.ID, now) {
		return false
	}
	return includeSensitive || !it.IsSensitive
}

func (s *Store) expired(id string, now time.Time) bool {
	deadline, ok := s.expiry[id]
	return ok && !now.Before(deadline)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it *Item) bool { return it.ID == id })
}

// forget drops expiry and pin bookkeeping for id
func (s *Store) forget(id string) {
	delete(s.expiry, id)
	s.pinned = slices.DeleteFunc(s.pinned, func(p string) bool { return p == id })
}

func (s *Store) save() {
	if s.vault == nil {
		return
	}
	if err := s.vault.write(s.snapshot()); err != nil {
		logging.Warnf("failed to save history: %v", err)
	}
}

func newID(text string, now time.Time) string {
	sum := sha256.Sum256([]byte(text + strconv.FormatInt(now.UnixNano(), 10)))
	return hex.EncodeToString(sum[:])[:12]
}
