package platform

import (
	"errors"
	"strings"
	"testing"

	"github.com/grendel/noprints/internal/ports"
	"github.com/zalando/go-keyring"
)

func TestClipboardChangeDetection(t *testing.T) {
	value := "first"
	var written []string
	c := &Clipboard{
		read:  func() (string, error) { return value, nil },
		write: func(s string) error { written = append(written, s); value = s; return nil },
	}

	if text, changed, err := c.ReadChanged(); err != nil || !changed || text != "first" {
		t.Fatalf("first read = %q %v %v", text, changed, err)
	}
	if _, changed, _ := c.ReadChanged(); changed {
		t.Fatal("unchanged clipboard reported as changed")
	}

	value = "second"
	if text, changed, _ := c.ReadChanged(); !changed || text != "second" {
		t.Fatalf("second read = %q %v", text, changed)
	}

	if err := c.Write("cleaned"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, changed, _ := c.ReadChanged(); changed {
		t.Fatal("own write reported as a change")
	}
	if len(written) != 1 || written[0] != "cleaned" {
		t.Fatalf("written = %v", written)
	}
}

func TestClipboardReadError(t *testing.T) {
	boom := errors.New("no pasteboard")
	c := &Clipboard{read: func() (string, error) { return "", boom }}
	if _, changed, err := c.ReadChanged(); !errors.Is(err, boom) || changed {
		t.Fatalf("got changed=%v err=%v", changed, err)
	}
}

func TestParseFrontmost(t *testing.T) {
	tests := []struct {
		out  string
		want ports.AppInfo
	}{
		{"Safari\ncom.apple.Safari\n", ports.AppInfo{Name: "Safari", BundleID: "com.apple.Safari"}},
		{"Electrum\nmissing value\n", ports.AppInfo{Name: "Electrum"}},
		{"\n", ports.AppInfo{Name: UnknownApp}},
	}
	for _, tt := range tests {
		if got := parseFrontmost(tt.out); got != tt.want {
			t.Errorf("parseFrontmost(%q) = %+v, want %+v", tt.out, got, tt.want)
		}
	}
}

func TestNotificationScript(t *testing.T) {
	got := notificationScript("Security Notice", `say "hi"`, true)
	if !strings.HasPrefix(got, `display notification "say \"hi\"" with title "Security Notice"`) {
		t.Fatalf("script = %q", got)
	}
	if !strings.HasSuffix(got, `sound name "Glass"`) {
		t.Fatalf("script without sound: %q", got)
	}
	if strings.Contains(notificationScript("t", "m", false), "sound") {
		t.Fatal("silent notification should not name a sound")
	}
}

func TestNotifierNeverFails(t *testing.T) {
	n := &Notifier{}
	if err := n.Notify("title", "message", false); err != nil {
		t.Fatalf("Notify: %v", err)
	}
}

func TestKeychain(t *testing.T) {
	keyring.MockInit()
	k := NewKeychain()

	if _, err := k.Get("NoPrints", "encryption_key"); !errors.Is(err, ports.ErrSecretNotFound) {
		t.Fatalf("Get on empty keyring: %v", err)
	}
	if err := k.Set("NoPrints", "encryption_key", "c2VjcmV0"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := k.Get("NoPrints", "encryption_key")
	if err != nil || got != "c2VjcmV0" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}
