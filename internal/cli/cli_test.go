package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/grendel/noprints/internal/history"
	"github.com/grendel/noprints/internal/prefs"
	"github.com/zalando/go-keyring"
)

const (
	genesisAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
)

var zeroNsec = "nsec1" + strings.Repeat("q", 58)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	t.Setenv("NOPRINTS_LOG_LEVEL", "error")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	keyring.MockInit()
	color.NoColor = true
	return tmp
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "analyze", "--json", genesisAddress)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var v struct {
		RiskLevel     string `json:"risk_level"`
		ExpireSeconds int    `json:"expire_seconds"`
		ShouldBlur    bool   `json:"should_blur"`
	}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if v.RiskLevel != "medium" || v.ExpireSeconds != 30 || !v.ShouldBlur {
		t.Fatalf("verdict = %+v", v)
	}
}

func TestAnalyzeStdinBlursByDefault(t *testing.T) {
	isolate(t)

	out, err := run(t, zeroNsec+"\n", "analyze")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if strings.Contains(out, zeroNsec) {
		t.Fatalf("private key leaked into output:\n%s", out)
	}
	if !strings.Contains(out, "critical") {
		t.Fatalf("missing level:\n%s", out)
	}
}

func TestCleanStdin(t *testing.T) {
	isolate(t)

	out, err := run(t, "hello\u200b world  ", "clean")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if out != "hello world" {
		t.Fatalf("clean = %q", out)
	}
}

func TestValidate(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "validate", genesisAddress)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "legacy") || !strings.Contains(out, "valid") {
		t.Fatalf("output:\n%s", out)
	}

	if _, err := run(t, "", "validate", "not-a-token"); err == nil || !strings.Contains(err.Error(), "unrecognized") {
		t.Fatalf("err = %v", err)
	}
}

func TestScanJSON(t *testing.T) {
	tmp := isolate(t)

	dir := filepath.Join(tmp, "files")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "backup.txt"), []byte("notes\n"+zeroNsec+"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "clean.txt"), []byte("nothing here\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := run(t, "", "scan", "--json", dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var res struct {
		FilesScanned int `json:"files_scanned"`
		Flagged      int `json:"flagged"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.FilesScanned != 2 || res.Flagged != 1 {
		t.Fatalf("result = %+v", res)
	}
	if strings.Contains(out, zeroNsec) {
		t.Fatal("private key leaked into scan output")
	}
}

func TestPrefsSetAndList(t *testing.T) {
	isolate(t)

	if _, err := run(t, "", "prefs", "set", prefs.ShowNotifications, "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, "", "prefs", "list", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var all map[string]bool
	if err := json.Unmarshal([]byte(out), &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !all[prefs.ShowNotifications] || !all[prefs.BlurSensitive] {
		t.Fatalf("prefs = %v", all)
	}

	if _, err := run(t, "", "prefs", "set", "dark_mode", "true"); !errors.Is(err, prefs.ErrUnknownKey) {
		t.Fatalf("err = %v, want ErrUnknownKey", err)
	}
	if _, err := run(t, "", "prefs", "set", prefs.BlurSensitive, "maybe"); err == nil {
		t.Fatal("expected error for a non-boolean value")
	}
}

func TestHistoryEmpty(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "history", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No items.") {
		t.Fatalf("output:\n%s", out)
	}

	out, err = run(t, "", "history", "stats", "--json")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var st history.Statistics
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Total != 0 {
		t.Fatalf("stats = %+v", st)
	}

	if _, err := run(t, "", "history", "pin", "deadbeef"); !errors.Is(err, history.ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
	if _, err := run(t, "", "history", "list", "--domain", "ethereum"); err == nil {
		t.Fatal("expected error for an unknown domain")
	}
}

func TestConfigInit(t *testing.T) {
	tmp := isolate(t)
	path := filepath.Join(tmp, "conf", "noprints.yaml")

	out, err := run(t, "", "config", "init", path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("output = %q", out)
	}
	if _, err := run(t, "", "config", "init", path); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if _, err := run(t, "", "config", "init", "--force", path); err != nil {
		t.Fatalf("init --force: %v", err)
	}

	out, err = run(t, "", "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "@every 5s") {
		t.Fatalf("show:\n%s", out)
	}
}

func TestRootShowsHelp(t *testing.T) {
	isolate(t)

	out, err := run(t, "")
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if !strings.Contains(out, "analyze") {
		t.Fatalf("help:\n%s", out)
	}
}

func TestHistoryHelpMentionsWatcher(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "history", "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(out, "noprints watch") || !strings.Contains(out, "overwritten") {
		t.Fatalf("help:\n%s", out)
	}
}

func TestHistoryListNegativeLimit(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "history", "list", "-n", "-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No items.") {
		t.Fatalf("output:\n%s", out)
	}
}
