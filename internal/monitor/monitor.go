// Package monitor watches the clipboard, cleans and classifies new text and
// sweeps expired history items
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grendel/noprints/internal/history"
	"github.com/grendel/noprints/internal/logging"
	"github.com/grendel/noprints/internal/ports"
	"github.com/grendel/noprints/internal/prefs"
	"github.com/grendel/noprints/pkg/risk"
	"github.com/grendel/noprints/pkg/sanitize"
	"github.com/grendel/noprints/pkg/security"
	"github.com/robfig/cron/v3"
)

const (
	DefaultPollInterval  = 100 * time.Millisecond
	DefaultSweepSchedule = "@every 5s"
)

// Stats counts what the monitor has seen since start or the last reset
type Stats struct {
	Processed int `json:"processed"`
	Cleaned   int `json:"cleaned"`
	Bitcoin   int `json:"bitcoin"`
	Passwords int `json:"passwords"`
	Nostr     int `json:"nostr"`
}

// Deps are the collaborators a Monitor drives
type Deps struct {
	Clipboard  ports.Clipboard
	Apps       ports.AppInspector
	Notifier   ports.Notifier
	Prefs      ports.Preferences
	Classifier *security.Classifier
	Store      *history.Store
}

// Monitor runs the clipboard poll and the expiry sweep
type Monitor struct {
	deps          Deps
	pollInterval  time.Duration
	sweepSchedule string

	mu    sync.Mutex
	stats Stats
	last  string
}

// New creates a monitor. Zero interval or empty schedule fall back to the
// defaults.
func New(deps Deps, pollInterval time.Duration, sweepSchedule string) *Monitor {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if sweepSchedule == "" {
		sweepSchedule = DefaultSweepSchedule
	}
	return &Monitor{deps: deps, pollInterval: pollInterval, sweepSchedule: sweepSchedule}
}

// ParseSchedule parses a sweep schedule: a five field cron spec or a
// descriptor such as "@every 5s"
func ParseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return sched, nil
}

// Run polls the clipboard and sweeps expired items until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) error {
	sched, err := ParseSchedule(m.sweepSchedule)
	if err != nil {
		return err
	}
	logging.Infof("monitoring clipboard every %s, sweeping on %q", m.pollInterval, m.sweepSchedule)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.sweepLoop(ctx, sched)
	}()

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil
		case <-ticker.C:
			if err := m.PollOnce(ctx); err != nil {
				logging.Warnf("clipboard poll: %v", err)
			}
		}
	}
}

func (m *Monitor) sweepLoop(ctx context.Context, sched cron.Schedule) {
	for {
		now := time.Now()
		timer := time.NewTimer(sched.Next(now).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if n := m.Sweep(); n > 0 {
				logging.Debugf("swept %d expired items", n)
			}
		}
	}
}

// PollOnce processes the clipboard once. It returns the first error hit;
// the caller keeps polling.
func (m *Monitor) PollOnce(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	if !m.deps.Prefs.Bool(prefs.ClipboardProtection) {
		return nil
	}

	text, changed, err := m.deps.Clipboard.ReadChanged()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	m.mu.Lock()
	last := m.last
	m.mu.Unlock()
	if !changed || text == "" || text == last {
		return nil
	}

	cleaned := sanitize.CleanText(text)
	if cleaned != text {
		if err := m.deps.Clipboard.Write(cleaned); err != nil {
			return fmt.Errorf("write cleaned clipboard: %w", err)
		}
		m.bump(func(s *Stats) { s.Cleaned++ })
	}

	app, err := m.deps.Apps.Frontmost()
	if err != nil {
		logging.Debugf("frontmost app: %v", err)
	}
	verdict := m.deps.Classifier.Analyze(cleaned, app.Name)
	m.deps.Store.Add(cleaned, history.Metadata{
		SecurityAnalysis: &verdict,
		SourceApp:        app.Name,
		Category:         security.Categorize(app.Name),
		Timestamp:        time.Now(),
	})

	m.bump(func(s *Stats) {
		s.Processed++
		if verdict.HasBitcoin() {
			s.Bitcoin++
		}
		if len(verdict.Passwords) > 0 {
			s.Passwords++
		}
		if verdict.HasNostr() {
			s.Nostr++
		}
	})
	m.mu.Lock()
	m.last = cleaned
	m.mu.Unlock()

	logging.Debugf("clipboard item from %q classified %s (%d)", app.Name, verdict.RiskLevel, verdict.RiskScore)
	m.notify(verdict)
	return nil
}

func (m *Monitor) notify(v security.Verdict) {
	if m.deps.Notifier == nil || !m.deps.Prefs.Bool(prefs.ShowNotifications) {
		return
	}
	var err error
	switch v.RiskLevel {
	case risk.Critical:
		msg := "Sensitive data detected"
		if len(v.Warnings) > 0 {
			msg = v.Warnings[0]
		}
		err = m.deps.Notifier.Notify("⚠️ Critical Security Alert", msg, true)
	case risk.High:
		secs := v.ExpireSeconds
		if secs == 0 {
			secs = 60
		}
		err = m.deps.Notifier.Notify("Security Notice", fmt.Sprintf("Sensitive data will expire in %ds", secs), false)
	}
	if err != nil {
		logging.Warnf("notification failed: %v", err)
	}
}

// Sweep removes expired history items when auto expiry is enabled
func (m *Monitor) Sweep() int {
	if !m.deps.Prefs.Bool(prefs.AutoExpireSensitive) {
		return 0
	}
	return m.deps.Store.ClearExpired()
}

// ClearAll empties the clipboard and the history and resets the counters
func (m *Monitor) ClearAll() error {
	m.deps.Store.ClearAll()
	m.ResetStats()
	if err := m.deps.Clipboard.Write(""); err != nil {
		return fmt.Errorf("clear clipboard: %w", err)
	}
	return nil
}

// Stats returns a copy of the counters
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// ResetStats zeroes the counters
func (m *Monitor) ResetStats() {
	m.mu.Lock()
	m.stats = Stats{}
	m.mu.Unlock()
}

func (m *Monitor) bump(f func(*Stats)) {
	m.mu.Lock()
	f(&m.stats)
	m.mu.Unlock()
}
