package platform

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/grendel/noprints/internal/ports"
)

// UnknownApp is reported when the foreground application cannot be determined
const UnknownApp = "Unknown"

const osascriptTimeout = 2 * time.Second

const frontmostScript = `tell application "System Events"
	set p to first application process whose frontmost is true
	return (name of p) & linefeed & (bundle identifier of p)
end tell`

// AppInspector asks System Events for the frontmost application on macOS
type AppInspector struct {
	run func(ctx context.Context, script string) (string, error)
}

// NewAppInspector returns an inspector that shells out to osascript
func NewAppInspector() *AppInspector {
	return &AppInspector{run: osascript}
}

// Frontmost returns the focused application. Off macOS, or when the script
// fails, the name is "Unknown" and the error is nil.
func (a *AppInspector) Frontmost() (ports.AppInfo, error) {
	unknown := ports.AppInfo{Name: UnknownApp}
	if runtime.GOOS != "darwin" || a.run == nil {
		return unknown, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), osascriptTimeout)
	defer cancel()
	out, err := a.run(ctx, frontmostScript)
	if err != nil {
		return unknown, nil
	}
	return parseFrontmost(out), nil
}

func parseFrontmost(out string) ports.AppInfo {
	name, bundle, _ := strings.Cut(strings.TrimSpace(out), "\n")
	name = strings.TrimSpace(name)
	if name == "" {
		name = UnknownApp
	}
	bundle = strings.TrimSpace(bundle)
	if bundle == "missing value" {
		bundle = ""
	}
	return ports.AppInfo{Name: name, BundleID: bundle}
}

func osascript(ctx context.Context, script string) (string, error) {
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	return string(out), err
}
