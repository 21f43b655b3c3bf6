// Package app wires the classifier, preferences, history store and platform
// adapters into the services the CLI runs
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/grendel/noprints/internal/config"
	"github.com/grendel/noprints/internal/history"
	"github.com/grendel/noprints/internal/monitor"
	"github.com/grendel/noprints/internal/platform"
	"github.com/grendel/noprints/internal/ports"
	"github.com/grendel/noprints/internal/prefs"
	"github.com/grendel/noprints/pkg/security"
)

// Container wires up application services with platform adapters.
// Adapter fields may be replaced before the first call to History or Monitor.
type Container struct {
	Config     config.Config
	Classifier *security.Classifier
	Prefs      *prefs.Store

	Clipboard ports.Clipboard
	Apps      ports.AppInspector
	Notifier  ports.Notifier
	Secrets   ports.SecretStore

	historyOnce sync.Once
	history     *history.Store
	historyErr  error
}

// BuildContainer constructs the dependency graph. The history store is opened
// on first use so commands that never touch it never reach the keychain.
func BuildContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := prefs.Open(cfg.Prefs.File)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return &Container{
		Config:     cfg,
		Classifier: security.NewClassifier(cfg.Security.ExcludedApps...),
		Prefs:      p,
		Clipboard:  platform.NewClipboard(),
		Apps:       platform.NewAppInspector(),
		Notifier:   platform.NewNotifier(),
		Secrets:    platform.NewKeychain(),
	}, nil
}

// History opens the encrypted history store once and returns it
func (c *Container) History() (*history.Store, error) {
	c.historyOnce.Do(func() {
		c.history, c.historyErr = history.Open(history.Options{
			Capacity:       c.Config.History.Capacity,
			PersistLimit:   c.Config.History.PersistLimit,
			Path:           c.Config.History.File,
			Secrets:        c.Secrets,
			KeyringService: c.Config.History.KeyringService,
			KeyringAccount: c.Config.History.KeyringAccount,
		})
	})
	return c.history, c.historyErr
}

// Monitor builds the clipboard monitor over the shared history store
func (c *Container) Monitor() (*monitor.Monitor, error) {
	store, err := c.History()
	if err != nil {
		return nil, err
	}
	return monitor.New(monitor.Deps{
		Clipboard:  c.Clipboard,
		Apps:       c.Apps,
		Notifier:   c.Notifier,
		Prefs:      c.Prefs,
		Classifier: c.Classifier,
		Store:      store,
	}, c.Config.Monitor.PollInterval, c.Config.Monitor.SweepSchedule), nil
}
