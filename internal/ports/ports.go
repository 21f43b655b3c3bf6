// Package ports defines the interfaces the clipboard monitor and history
// store consume from the host platform. Concrete adapters live in
// internal/platform; tests substitute in-memory fakes.
package ports

import "errors"

// ErrSecretNotFound is returned by a SecretStore when no secret is stored
// under the requested service and account.
var ErrSecretNotFound = errors.New("secret not found")

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	// ReadChanged returns the clipboard text and whether it changed since the
	// last observation, including observations of the adapter's own writes.
	ReadChanged() (string, bool, error)
	Write(text string) error
}

// AppInfo describes the foreground application.
type AppInfo struct {
	Name     string
	BundleID string
}

// AppInspector reports the application that currently has focus.
type AppInspector interface {
	Frontmost() (AppInfo, error)
}

// Notifier presents a passive notification banner.
type Notifier interface {
	Notify(title, message string, sound bool) error
}

// SecretStore keeps small secrets in the platform keychain.
type SecretStore interface {
	Get(service, account string) (string, error)
	Set(service, account, secret string) error
}

// Preferences exposes the boolean feature toggles.
type Preferences interface {
	Bool(key string) bool
}
