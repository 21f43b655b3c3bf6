// Package platform adapts the host clipboard, foreground application,
// notification center and keychain to the interfaces in internal/ports
package platform

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard reads the system clipboard and remembers the last value it saw
type Clipboard struct {
	mu    sync.Mutex
	last  string
	read  func() (string, error)
	write func(string) error
}

// NewClipboard returns a Clipboard backed by the system pasteboard
func NewClipboard() *Clipboard {
	return &Clipboard{read: clipboard.ReadAll, write: clipboard.WriteAll}
}

// Supported reports whether a clipboard utility is available on this host
func Supported() bool {
	return !clipboard.Unsupported
}

// ReadChanged returns the clipboard text and whether it differs from the last
// value read or written through this adapter.
func (c *Clipboard) ReadChanged() (string, bool, error) {
	text, err := c.read()
	if err != nil {
		return "", false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.last {
		return text, false, nil
	}
	c.last = text
	return text, true, nil
}

// Write replaces the clipboard contents. The written text counts as seen.
func (c *Clipboard) Write(text string) error {
	if err := c.write(text); err != nil {
		return err
	}
	c.mu.Lock()
	c.last = text
	c.mu.Unlock()
	return nil
}
