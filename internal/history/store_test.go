package history

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grendel/noprints/pkg/crypto"
	"github.com/grendel/noprints/pkg/risk"
	"github.com/grendel/noprints/pkg/security"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time            { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(capacity int) (*Store, *clock) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	s := New(capacity)
	s.now = c.now
	return s, c
}

func expiring(level risk.Level, seconds int) Metadata {
	return Metadata{SecurityAnalysis: &security.Verdict{
		RiskLevel:     level,
		ShouldExpire:  true,
		ExpireSeconds: seconds,
		ShouldBlur:    true,
	}}
}

func TestAddAndGet(t *testing.T) {
	s, _ := newTestStore(0)

	if _, ok := s.Add("", Metadata{}); ok {
		t.Fatal("empty text should not be added")
	}

	it, ok := s.Add("hello world", Metadata{SourceApp: "Terminal"})
	if !ok {
		t.Fatal("Add returned false")
	}
	if len(it.ID) != 12 || it.AccessCount != 1 || it.Icon != "📋" || it.DisplayText != "hello world" {
		t.Fatalf("item = %+v", it)
	}
	if it.IsSensitive || it.ExpireAt != nil {
		t.Fatalf("plain text marked sensitive: %+v", it)
	}

	got, ok := s.Get(it.ID)
	if !ok || got.Text != "hello world" || got.AccessCount != 2 {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("Get of unknown id succeeded")
	}
}

func TestAddDuplicateMovesToFront(t *testing.T) {
	s, c := newTestStore(0)
	first, _ := s.Add("one", Metadata{})
	c.advance(time.Second)
	s.Add("two", Metadata{})
	c.advance(time.Second)

	again, ok := s.Add("one", Metadata{})
	if !ok || again.ID != first.ID || again.AccessCount != 2 {
		t.Fatalf("duplicate = %+v", again)
	}
	if !again.Timestamp.Equal(c.t) {
		t.Fatalf("timestamp not refreshed: %v", again.Timestamp)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d", s.Len())
	}
	recent := s.GetRecent(10, true)
	if recent[0].Text != "one" || recent[1].Text != "two" {
		t.Fatalf("order = %q, %q", recent[0].Text, recent[1].Text)
	}
}

func TestAddExpiry(t *testing.T) {
	s, c := newTestStore(0)

	it, _ := s.Add("secret", expiring(risk.Critical, 10))
	if it.ExpireAt == nil || !it.ExpireAt.Equal(c.t.Add(10*time.Second)) {
		t.Fatalf("expire_at = %v", it.ExpireAt)
	}
	if !it.IsSensitive {
		t.Fatal("critical item should be sensitive")
	}

	dflt, _ := s.Add("other", expiring(risk.Medium, 0))
	if dflt.ExpireAt == nil || !dflt.ExpireAt.Equal(c.t.Add(time.Minute)) {
		t.Fatalf("default expiry = %v", dflt.ExpireAt)
	}
	if dflt.IsSensitive {
		t.Fatal("medium item should not be sensitive")
	}
}

func TestCapacityEvictionDropsBookkeeping(t *testing.T) {
	s, _ := newTestStore(2)
	oldest, _ := s.Add("a", expiring(risk.High, 30))
	s.Pin(oldest.ID)
	s.Add("b", expiring(risk.High, 30))
	s.Add("c", Metadata{})

	if s.Len() != 2 {
		t.Fatalf("Len = %d", s.Len())
	}
	if _, ok := s.Get(oldest.ID); ok {
		t.Fatal("oldest item was not evicted")
	}
	if s.IsPinned(oldest.ID) {
		t.Fatal("pin of evicted item kept")
	}
	if _, ok := s.expiry[oldest.ID]; ok {
		t.Fatal("expiry of evicted item kept")
	}
}

func TestGetRecentFilters(t *testing.T) {
	s, c := newTestStore(0)
	s.Add("plain 1", Metadata{})
	s.Add("sensitive", expiring(risk.High, 30))
	s.Add("short lived", expiring(risk.Medium, 5))
	s.Add("plain 2", Metadata{})

	if got := s.GetRecent(10, false); len(got) != 3 {
		t.Fatalf("without sensitive = %d items", len(got))
	}
	if got := s.GetRecent(10, true); len(got) != 4 {
		t.Fatalf("with sensitive = %d items", len(got))
	}
	if got := s.GetRecent(2, true); len(got) != 2 || got[0].Text != "plain 2" {
		t.Fatalf("limited = %+v", got)
	}

	c.advance(6 * time.Second)
	got := s.GetRecent(10, true)
	if len(got) != 3 {
		t.Fatalf("after deadline = %d items", len(got))
	}
	for _, it := range got {
		if it.Text == "short lived" {
			t.Fatal("expired item returned before sweep")
		}
	}
	if s.Len() != 4 {
		t.Fatal("reads must not remove items")
	}
}

func TestGetRecentCount(t *testing.T) {
	s, _ := newTestStore(0)
	s.Add("one", Metadata{})
	s.Add("two", Metadata{})

	tests := []struct {
		count int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{5, 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.count), func(t *testing.T) {
			if got := s.GetRecent(tt.count, true); len(got) != tt.want {
				t.Fatalf("GetRecent(%d) = %d items, want %d", tt.count, len(got), tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	s, _ := newTestStore(0)
	s.Add("Meeting notes", Metadata{SourceApp: "Notes"})
	s.Add("deploy key", Metadata{SourceApp: "iTerm2"})
	s.Add("hunter2", Metadata{SecurityAnalysis: &security.Verdict{RiskLevel: risk.High, Warnings: []string{"Password detected"}}})

	if got := s.Search("MEETING", false); len(got) != 1 {
		t.Fatalf("text search = %d", len(got))
	}
	if got := s.Search("iterm", false); len(got) != 1 || got[0].Text != "deploy key" {
		t.Fatalf("metadata search = %+v", got)
	}
	if got := s.Search("password detected", false); len(got) != 0 {
		t.Fatal("sensitive item returned without includeSensitive")
	}
	if got := s.Search("password detected", true); len(got) != 1 {
		t.Fatalf("analysis search = %d", len(got))
	}
}

func TestDomainItems(t *testing.T) {
	s, _ := newTestStore(0)
	btc := &security.Verdict{Bitcoin: crypto.BitcoinFindings{Addresses: []crypto.Entity{{Value: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", Type: crypto.Legacy}}}}
	nostr := &security.Verdict{Nostr: crypto.NostrFindings{Relays: []crypto.Entity{{Value: "wss://relay.damus.io", Type: crypto.WebsocketURL}}}}
	s.Add("btc", Metadata{SecurityAnalysis: btc})
	s.Add("nostr", Metadata{SecurityAnalysis: nostr})
	s.Add("plain", Metadata{})

	if got := s.BitcoinItems(); len(got) != 1 || got[0].Text != "btc" {
		t.Fatalf("BitcoinItems = %+v", got)
	}
	if got := s.NostrItems(); len(got) != 1 || got[0].Text != "nostr" {
		t.Fatalf("NostrItems = %+v", got)
	}
}

func TestClearSensitive(t *testing.T) {
	s, _ := newTestStore(0)
	s.Add("plain", Metadata{})
	secret, _ := s.Add("secret", expiring(risk.Critical, 10))
	medium, _ := s.Add("address", expiring(risk.Medium, 30))
	s.Pin(secret.ID)

	s.ClearSensitive()
	if s.Len() != 2 {
		t.Fatalf("Len = %d", s.Len())
	}
	if len(s.expiry) != 0 {
		t.Fatalf("expiry = %v", s.expiry)
	}
	if s.IsPinned(secret.ID) {
		t.Fatal("pin of cleared item kept")
	}
	if _, ok := s.Get(medium.ID); !ok {
		t.Fatal("non-sensitive item removed")
	}
}

func TestClearExpiredIdempotent(t *testing.T) {
	s, c := newTestStore(0)
	s.Add("soon", expiring(risk.High, 10))
	s.Add("later", expiring(risk.High, 60))
	s.Add("never", Metadata{})

	if n := s.ClearExpired(); n != 0 {
		t.Fatalf("nothing matured yet, removed %d", n)
	}
	c.advance(10 * time.Second)
	if n := s.ClearExpired(); n != 1 {
		t.Fatalf("removed %d, want 1", n)
	}
	if n := s.ClearExpired(); n != 0 {
		t.Fatalf("second call removed %d", n)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestPinUnpinAsymmetry(t *testing.T) {
	s, c := newTestStore(0)
	it, _ := s.Add("seed words", expiring(risk.Critical, 10))

	if !s.Pin(it.ID) || !s.IsPinned(it.ID) {
		t.Fatal("Pin failed")
	}
	if _, ok := s.expiry[it.ID]; ok {
		t.Fatal("pin should drop the expiry entry")
	}
	got, _ := s.Get(it.ID)
	if got.ExpireAt == nil {
		t.Fatal("pin should leave expire_at untouched")
	}

	if !s.Unpin(it.ID) || s.IsPinned(it.ID) {
		t.Fatal("Unpin failed")
	}
	c.advance(time.Minute)
	if n := s.ClearExpired(); n != 0 {
		t.Fatalf("unpinned item expired: %d", n)
	}
	if len(s.GetRecent(10, true)) != 1 {
		t.Fatal("unpinned item should still be visible")
	}

	if s.Pin("nope") || s.Unpin("nope") {
		t.Fatal("unknown ids should return false")
	}
}

func TestDeleteAndClearAll(t *testing.T) {
	s, _ := newTestStore(0)
	a, _ := s.Add("a", expiring(risk.High, 30))
	s.Pin(a.ID)
	s.Add("b", Metadata{})

	if !s.Delete(a.ID) {
		t.Fatal("Delete returned false")
	}
	if s.Delete(a.ID) {
		t.Fatal("second Delete returned true")
	}
	if s.IsPinned(a.ID) || len(s.expiry) != 0 {
		t.Fatal("bookkeeping kept after delete")
	}

	s.ClearAll()
	if s.Len() != 0 || s.Statistics().Total != 0 {
		t.Fatal("ClearAll left items")
	}
}

func TestStatistics(t *testing.T) {
	s, _ := newTestStore(0)
	btc := expiring(risk.Critical, 10)
	btc.SecurityAnalysis.Bitcoin.PrivateKeys = []crypto.Entity{{Value: "5Hue", Type: crypto.WIF}}
	s.Add("wif", btc)
	p, _ := s.Add("card", expiring(risk.High, 45))
	s.Add("plain", Metadata{})
	s.Pin(p.ID)

	st := s.Statistics()
	want := Statistics{Total: 3, Sensitive: 2, Bitcoin: 1, Pinned: 1, ExpiringSoon: 1}
	if st != want {
		t.Fatalf("Statistics = %+v, want %+v", st, want)
	}
}

func TestConcurrentAccess(t *testing.T) {
	const (
		capacity   = 10
		workers    = 4
		iterations = 200
	)
	s := New(capacity)
	base := time.Unix(1_700_000_000, 0)
	var ticks atomic.Int64
	s.now = func() time.Time {
		return base.Add(time.Duration(ticks.Add(1)) * 100 * time.Millisecond)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				meta := Metadata{}
				if i%2 == 0 {
					meta = expiring(risk.High, 1)
				}
				it, _ := s.Add(fmt.Sprintf("item %d-%d", w, i%25), meta)

				switch i % 4 {
				case 0:
					s.Pin(it.ID)
				case 1:
					s.ClearExpired()
				case 2:
					if recent := s.GetRecent(3, true); len(recent) > 0 {
						s.Delete(recent[len(recent)-1].ID)
					}
				case 3:
					s.Unpin(it.ID)
					s.Statistics()
				}
			}
		}(w)
	}
	wg.Wait()

	if n := s.Len(); n > capacity {
		t.Fatalf("Len = %d, capacity %d", n, capacity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	present := make(map[string]bool, len(s.items))
	for _, it := range s.items {
		if present[it.ID] {
			t.Fatalf("duplicate id %s", it.ID)
		}
		present[it.ID] = true
	}
	for id := range s.expiry {
		if !present[id] {
			t.Errorf("expiry entry %s has no item", id)
		}
	}
	for _, id := range s.pinned {
		if !present[id] {
			t.Errorf("pin %s has no item", id)
		}
	}
}
