package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grendel/noprints/internal/logging"
	"github.com/grendel/noprints/internal/platform"
	"github.com/grendel/noprints/internal/prefs"
	"github.com/spf13/cobra"
)

func newWatchCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Monitor the clipboard until interrupted",
		Long:  "Poll the clipboard, clean and classify every new copy into the encrypted history, and sweep expired items. Preference file edits apply without a restart.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !platform.Supported() {
				logging.Warnf("no clipboard utility found; install pbcopy, xclip, xsel or wl-clipboard")
			}
			m, err := e.container.Monitor()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := prefs.NewWatcher(e.container.Prefs)
			if err != nil {
				logging.Warnf("preference hot reload disabled: %v", err)
			} else {
				w.OnReload = func() {
					logging.Infof("preferences reloaded: %v", e.container.Prefs.All())
				}
				go func() {
					if err := w.Run(ctx); err != nil {
						logging.Warnf("preference watcher stopped: %v", err)
					}
				}()
			}

			if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			st := m.Stats()
			logging.Infof("stopped: %d processed, %d cleaned, %d bitcoin, %d nostr, %d passwords",
				st.Processed, st.Cleaned, st.Bitcoin, st.Nostr, st.Passwords)
			return nil
		},
	}
}
