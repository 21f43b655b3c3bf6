package platform

import (
	"errors"

	"github.com/grendel/noprints/internal/ports"
	"github.com/zalando/go-keyring"
)

// Keychain stores secrets in the OS keyring: Keychain on macOS, the Secret
// Service on Linux and the Credential Manager on Windows.
type Keychain struct{}

// NewKeychain returns the OS keyring adapter
func NewKeychain() Keychain { return Keychain{} }

// Get returns the secret for service and account, or ports.ErrSecretNotFound
func (Keychain) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ports.ErrSecretNotFound
	}
	return secret, err
}

// Set stores secret under service and account, replacing any previous value
func (Keychain) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}
