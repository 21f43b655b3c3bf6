// Package scanner classifies the contents of files on disk with the same
// rules the clipboard monitor applies to copied text
package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sync"

	"github.com/grendel/noprints/internal/logging"
	"github.com/grendel/noprints/pkg/crypto"
	"github.com/grendel/noprints/pkg/fileutil"
	"github.com/grendel/noprints/pkg/matcher"
	"github.com/grendel/noprints/pkg/risk"
	"github.com/grendel/noprints/pkg/security"
)

// Options controls a scan
type Options struct {
	Recursive       bool
	Workers         int
	MaxFileSizeMB   int64
	ExcludePatterns []string
}

// Hit is one sensitive token located in a file
type Hit struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Line  int    `json:"line,omitempty"`
	// Score and Icon are set for Bitcoin and Nostr hits only
	Score int    `json:"score,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// FileReport is the classification of a single file
type FileReport struct {
	Path    string
	Verdict security.Verdict
	Hits    []Hit
	Err     string
}

// MarshalJSON writes the report without the verdict's raw entities, so
// scan output only ever carries the masked hit values.
func (r FileReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path      string     `json:"path"`
		RiskLevel risk.Level `json:"risk_level"`
		RiskScore int        `json:"risk_score"`
		Warnings  []string   `json:"warnings,omitempty"`
		Hits      []Hit      `json:"hits"`
		Err       string     `json:"error,omitempty"`
	}{r.Path, r.Verdict.RiskLevel, r.Verdict.RiskScore, r.Verdict.Warnings, r.Hits, r.Err})
}

// Flagged reports whether anything sensitive was found
func (r FileReport) Flagged() bool {
	return len(r.Hits) > 0
}

// ScanResult summarizes a scan
type ScanResult struct {
	Files        []FileReport       `json:"files"`
	FilesScanned int                `json:"files_scanned"`
	Flagged      int                `json:"flagged"`
	Failed       int                `json:"failed"`
	ByLevel      map[risk.Level]int `json:"by_level"`
}

// Scan collects the text files under paths and classifies each one
func Scan(ctx context.Context, classifier *security.Classifier, paths []string, opts Options) (*ScanResult, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maxBytes := opts.MaxFileSizeMB * 1024 * 1024

	fs := fileutil.NewScanner(opts.Recursive, workers, maxBytes)
	fs.SetExcludePatterns(opts.ExcludePatterns)
	files, err := fs.Collect(paths...)
	if err != nil {
		return nil, fmt.Errorf("error scanning: %w", err)
	}
	logging.Debugf("classifying %d files with %d workers", len(files), workers)

	reports := make([]FileReport, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < min(workers, len(files)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				reports[idx] = scanFile(classifier, files[idx], maxBytes)
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ScanResult{
		Files:        reports,
		FilesScanned: len(reports),
		ByLevel:      make(map[risk.Level]int),
	}
	for _, r := range reports {
		switch {
		case r.Err != "":
			result.Failed++
		case r.Flagged():
			result.Flagged++
			result.ByLevel[r.Verdict.RiskLevel]++
		}
	}
	return result, nil
}

func scanFile(classifier *security.Classifier, path string, maxBytes int64) FileReport {
	report := FileReport{Path: path}
	text, err := fileutil.ReadText(path, maxBytes)
	if err != nil {
		logging.Warnf("error analyzing file %s: %v", path, err)
		report.Err = err.Error()
		return report
	}
	report.Verdict = classifier.Analyze(text, "")
	report.Hits = collectHits(text, &report.Verdict)
	return report
}

// collectHits flattens a verdict into located tokens. Secret values are
// reported masked; Bitcoin and Nostr values through their display forms.
func collectHits(text string, v *security.Verdict) []Hit {
	var hits []Hit
	add := func(e crypto.Entity, display string, score int, icon string) {
		hits = append(hits, Hit{
			Kind:  string(e.Type),
			Value: display,
			Line:  fileutil.LineOf(text, e.Value),
			Score: score,
			Icon:  icon,
		})
	}

	b := v.Bitcoin
	bitcoinGroups := []struct {
		kind     string
		entities []crypto.Entity
	}{
		{"private_key", b.PrivateKeys},
		{"seed_phrase", b.SeedPhrases},
		{"", b.ExtendedKeys},
		{"address", b.Addresses},
		{"", b.Lightning},
		{"transaction_id", b.TransactionIDs},
	}
	for _, g := range bitcoinGroups {
		for _, e := range g.entities {
			kind := g.kind
			if kind == "" {
				kind = bitcoinKind(e.Type)
			}
			add(e, crypto.BitcoinDisplay(e.Value, kind), crypto.BitcoinRiskScore(kind), crypto.BitcoinIcon(kind))
		}
	}

	n := v.Nostr
	for _, group := range [][]crypto.Entity{n.PrivateKeys, n.PublicKeys, n.Notes, n.Events, n.Relays, n.NIP05IDs, n.Zaps, n.RawEvents} {
		for _, e := range group {
			kind := nostrKind(e.Type)
			score, icon := crypto.NostrRiskScore(kind), crypto.NostrIcon(kind)
			if e.Value == "" {
				add(e, eventLabel(e), score, icon)
				continue
			}
			add(e, crypto.NostrDisplay(e.Value, string(e.Type)), score, icon)
		}
	}

	var generic []matcher.Finding
	for _, group := range [][]matcher.Finding{v.Passwords, v.CreditCards, v.APIKeys, v.OtherSensitive} {
		generic = append(generic, group...)
	}
	for _, f := range matcher.Deduplicate(generic) {
		value := f.Masked
		if value == "" {
			value = f.Fingerprint
		}
		hits = append(hits, Hit{Kind: string(f.Type), Value: value})
	}
	return hits
}

func bitcoinKind(t crypto.EntityType) string {
	switch t {
	case crypto.LightningInvoice:
		return "lightning_invoice"
	case crypto.LightningAddress:
		return "lightning_address"
	default:
		return string(t)
	}
}

// nostrKind maps an entity type onto the kind names used for scores and icons
func nostrKind(t crypto.EntityType) string {
	switch t {
	case crypto.WebsocketURL, crypto.Nrelay:
		return "relay_ws"
	default:
		return string(t)
	}
}

// eventLabel names a raw event without echoing its content
func eventLabel(e crypto.Entity) string {
	if e.Kind == 0 {
		return "raw event"
	}
	if name := crypto.EventKindName(e.Kind); name != "" {
		return fmt.Sprintf("kind %d (%s)", e.Kind, name)
	}
	return fmt.Sprintf("kind %d", e.Kind)
}
