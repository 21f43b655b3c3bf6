package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grendel/noprints/pkg/risk"
	"github.com/grendel/noprints/pkg/security"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "clean.txt"), "nothing to see here\n")
	writeFile(t, filepath.Join(root, "backup.txt"), "my wallet\nnsec1"+strings.Repeat("q", 58)+"\n")
	writeFile(t, filepath.Join(root, "cards", "pay.csv"), "name,card\nalice,4111-1111-1111-1111\nalice,4111-1111-1111-1111\n")

	res, err := Scan(context.Background(), security.NewClassifier(), []string{root}, Options{Recursive: true, Workers: 2, MaxFileSizeMB: 1})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.FilesScanned != 3 || res.Flagged != 2 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.ByLevel[risk.Critical] != 1 || res.ByLevel[risk.High] != 1 {
		t.Fatalf("by level = %v", res.ByLevel)
	}

	byName := make(map[string]FileReport)
	for _, r := range res.Files {
		byName[filepath.Base(r.Path)] = r
	}

	backup := byName["backup.txt"]
	if len(backup.Hits) != 1 {
		t.Fatalf("backup hits = %+v", backup.Hits)
	}
	if h := backup.Hits[0]; h.Kind != "nsec" || h.Line != 2 || strings.Contains(h.Value, "qqqq") {
		t.Fatalf("nsec hit = %+v", h)
	}
	if h := backup.Hits[0]; h.Score != 100 || h.Icon != "🔑" {
		t.Fatalf("nsec score/icon = %d %q", h.Score, h.Icon)
	}

	cards := byName["pay.csv"]
	if len(cards.Hits) != 1 || cards.Hits[0].Kind != "credit_card" || !strings.HasSuffix(cards.Hits[0].Value, "1111") {
		t.Fatalf("card hits = %+v", cards.Hits)
	}
	if cards.Hits[0].Score != 0 || cards.Hits[0].Icon != "" {
		t.Fatalf("generic hit carries a domain score: %+v", cards.Hits[0])
	}

	if byName["clean.txt"].Flagged() {
		t.Fatal("clean file flagged")
	}
}

func TestScanMissingPath(t *testing.T) {
	_, err := Scan(context.Background(), security.NewClassifier(), []string{filepath.Join(t.TempDir(), "nope")}, Options{MaxFileSizeMB: 1})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, security.NewClassifier(), []string{root}, Options{MaxFileSizeMB: 1}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestCollectHitsDomainScores(t *testing.T) {
	const (
		genesis = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
		wif     = "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ"
	)
	text := "pay " + genesis + "\nrelay wss://relay.damus.io\nkey " + wif
	v := security.NewClassifier().Analyze(text, "")

	byKind := make(map[string]Hit)
	for _, h := range collectHits(text, &v) {
		byKind[h.Kind] = h
	}

	tests := []struct {
		kind  string
		score int
		icon  string
		line  int
	}{
		{"legacy", 30, "₿", 1},
		{"websocket_url", 5, "🔗", 2},
		{"wif", 100, "🔑", 3},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			h, ok := byKind[tt.kind]
			if !ok {
				t.Fatalf("no %s hit in %+v", tt.kind, byKind)
			}
			if h.Score != tt.score || h.Icon != tt.icon || h.Line != tt.line {
				t.Fatalf("hit = %+v, want score %d icon %q line %d", h, tt.score, tt.icon, tt.line)
			}
		})
	}
	if strings.Contains(byKind["wif"].Value, wif) {
		t.Fatal("private key leaked into hit value")
	}
}
