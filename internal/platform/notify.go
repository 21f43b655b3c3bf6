package platform

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/grendel/noprints/internal/logging"
)

// Notifier posts banners through the macOS notification center. Elsewhere,
// or if osascript fails, the notification is logged instead.
type Notifier struct {
	run func(ctx context.Context, script string) (string, error)
}

// NewNotifier returns a Notifier that shells out to osascript
func NewNotifier() *Notifier {
	return &Notifier{run: osascript}
}

// Notify shows a notification with the given title and message
func (n *Notifier) Notify(title, message string, sound bool) error {
	if runtime.GOOS == "darwin" && n.run != nil {
		ctx, cancel := context.WithTimeout(context.Background(), osascriptTimeout)
		defer cancel()
		if _, err := n.run(ctx, notificationScript(title, message, sound)); err == nil {
			return nil
		}
	}
	logging.Infof("%s: %s", title, message)
	return nil
}

func notificationScript(title, message string, sound bool) string {
	script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(message), strconv.Quote(title))
	if sound {
		script += ` sound name "Glass"`
	}
	return script
}
