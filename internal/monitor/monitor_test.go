package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/grendel/noprints/internal/history"
	"github.com/grendel/noprints/internal/ports"
	"github.com/grendel/noprints/internal/prefs"
	"github.com/grendel/noprints/pkg/security"
)

type fakeClipboard struct {
	mu      sync.Mutex
	text    string
	seen    string
	writes  []string
	readErr error
}

func (c *fakeClipboard) set(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}

func (c *fakeClipboard) ReadChanged() (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return "", false, c.readErr
	}
	changed := c.text != c.seen
	c.seen = c.text
	return c.text, changed, nil
}

func (c *fakeClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text, c.seen = text, text
	c.writes = append(c.writes, text)
	return nil
}

type fakeApps struct{ name string }

func (a fakeApps) Frontmost() (ports.AppInfo, error) { return ports.AppInfo{Name: a.name}, nil }

type notice struct {
	title, message string
	sound          bool
}

type fakeNotifier struct{ sent []notice }

func (n *fakeNotifier) Notify(title, message string, sound bool) error {
	n.sent = append(n.sent, notice{title, message, sound})
	return nil
}

type fakePrefs map[string]bool

func (p fakePrefs) Bool(key string) bool { return p[key] }

type fixture struct {
	m        *Monitor
	clip     *fakeClipboard
	notifier *fakeNotifier
	prefs    fakePrefs
	store    *history.Store
}

func newFixture(app string) *fixture {
	f := &fixture{
		clip:     &fakeClipboard{},
		notifier: &fakeNotifier{},
		prefs:    fakePrefs(prefs.Defaults()),
		store:    history.New(0),
	}
	f.m = New(Deps{
		Clipboard:  f.clip,
		Apps:       fakeApps{name: app},
		Notifier:   f.notifier,
		Prefs:      f.prefs,
		Classifier: security.NewClassifier(),
		Store:      f.store,
	}, 0, "")
	return f
}

func (f *fixture) poll(t *testing.T) {
	t.Helper()
	if err := f.m.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
}

func TestPollCleansAndRecords(t *testing.T) {
	f := newFixture("Safari")
	f.clip.set("hello\u200b world  ")
	f.poll(t)

	if len(f.clip.writes) != 1 || f.clip.writes[0] != "hello world" {
		t.Fatalf("writes = %q", f.clip.writes)
	}
	items := f.store.GetRecent(10, true)
	if len(items) != 1 || items[0].Text != "hello world" {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Metadata.SourceApp != "Safari" || items[0].Metadata.Category != "browser" {
		t.Fatalf("metadata = %+v", items[0].Metadata)
	}
	if st := f.m.Stats(); st.Cleaned != 1 || st.Processed != 1 {
		t.Fatalf("stats = %+v", st)
	}

	f.poll(t)
	if f.store.Len() != 1 || f.m.Stats().Processed != 1 {
		t.Fatal("unchanged clipboard processed twice")
	}
}

func TestPollSkipsWhenDisabledOrEmpty(t *testing.T) {
	f := newFixture("Terminal")
	f.prefs[prefs.ClipboardProtection] = false
	f.clip.set("something")
	f.poll(t)
	if f.store.Len() != 0 {
		t.Fatal("disabled monitor recorded an item")
	}

	f.prefs[prefs.ClipboardProtection] = true
	f.clip.set("")
	f.poll(t)
	if f.store.Len() != 0 {
		t.Fatal("empty clipboard recorded")
	}
}

func TestPollCountsDomains(t *testing.T) {
	f := newFixture("Terminal")
	for _, text := range []string{
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		"npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6",
		"password: hunter2",
	} {
		f.clip.set(text)
		f.poll(t)
	}
	st := f.m.Stats()
	if st.Bitcoin != 1 || st.Nostr != 1 || st.Passwords != 1 || st.Processed != 3 {
		t.Fatalf("stats = %+v", st)
	}

	f.m.ResetStats()
	if f.m.Stats() != (Stats{}) {
		t.Fatal("ResetStats did not zero counters")
	}
}

func TestPollNotifications(t *testing.T) {
	f := newFixture("Terminal")

	f.clip.set("4111-1111-1111-1111")
	f.poll(t)
	if len(f.notifier.sent) != 0 {
		t.Fatal("notifications sent while disabled")
	}

	f.prefs[prefs.ShowNotifications] = true
	f.clip.set("nsec1" + strings.Repeat("q", 58))
	f.poll(t)
	f.clip.set("378282246310005")
	f.poll(t)

	if len(f.notifier.sent) != 2 {
		t.Fatalf("sent = %+v", f.notifier.sent)
	}
	critical := f.notifier.sent[0]
	if critical.title != "⚠️ Critical Security Alert" || critical.message != security.WarnNostrPrivateKey || !critical.sound {
		t.Fatalf("critical = %+v", critical)
	}
	high := f.notifier.sent[1]
	if high.title != "Security Notice" || high.message != "Sensitive data will expire in 30s" || high.sound {
		t.Fatalf("high = %+v", high)
	}
}

func TestPollReadError(t *testing.T) {
	f := newFixture("Terminal")
	f.clip.readErr = errors.New("pasteboard busy")
	if err := f.m.PollOnce(context.Background()); err == nil {
		t.Fatal("expected read error")
	}
}

func TestSweepHonorsPreference(t *testing.T) {
	f := newFixture("Terminal")
	f.store.Add("secret", history.Metadata{SecurityAnalysis: &security.Verdict{ShouldExpire: true, ExpireSeconds: 1}})
	time.Sleep(1100 * time.Millisecond)

	f.prefs[prefs.AutoExpireSensitive] = false
	if n := f.m.Sweep(); n != 0 || f.store.Len() != 1 {
		t.Fatalf("sweep ran while disabled: %d", n)
	}
	f.prefs[prefs.AutoExpireSensitive] = true
	if n := f.m.Sweep(); n != 1 || f.store.Len() != 0 {
		t.Fatalf("Sweep = %d", n)
	}
}

func TestClearAll(t *testing.T) {
	f := newFixture("Terminal")
	f.clip.set("keep me")
	f.poll(t)

	if err := f.m.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if f.store.Len() != 0 || f.m.Stats() != (Stats{}) {
		t.Fatal("ClearAll left state behind")
	}
	if last := f.clip.writes[len(f.clip.writes)-1]; last != "" {
		t.Fatalf("clipboard = %q", last)
	}
}

func TestParseSchedule(t *testing.T) {
	for _, spec := range []string{"@every 5s", "*/5 * * * *", "@hourly"} {
		if _, err := ParseSchedule(spec); err != nil {
			t.Errorf("ParseSchedule(%q): %v", spec, err)
		}
	}
	if _, err := ParseSchedule("every five seconds"); err == nil {
		t.Error("invalid schedule accepted")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture("Terminal")
	f.m = New(f.m.deps, 10*time.Millisecond, "@every 1s")
	f.clip.set("copied while running")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.m.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for f.store.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("poll loop never recorded the clipboard")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunRejectsBadSchedule(t *testing.T) {
	f := newFixture("Terminal")
	m := New(f.m.deps, time.Millisecond, "not a schedule")
	if err := m.Run(context.Background()); err == nil {
		t.Fatal("expected schedule error")
	}
}
