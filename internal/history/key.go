package history

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/grendel/noprints/internal/ports"
	"golang.org/x/crypto/chacha20poly1305"
)

// loadKey returns the snapshot key stored under service/account, generating
// and storing a new one on first use.
func loadKey(secrets ports.SecretStore, service, account string) ([]byte, error) {
	if secrets == nil {
		return nil, errors.New("no secret store configured")
	}
	if service == "" {
		service = "NoPrints"
	}
	if account == "" {
		account = "encryption_key"
	}

	stored, err := secrets.Get(service, account)
	switch {
	case errors.Is(err, ports.ErrSecretNotFound):
		key := make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate history key: %w", err)
		}
		if err := secrets.Set(service, account, base64.URLEncoding.EncodeToString(key)); err != nil {
			return nil, fmt.Errorf("store history key: %w", err)
		}
		return key, nil
	case err != nil:
		return nil, fmt.Errorf("read history key: %w", err)
	}

	key, err := base64.URLEncoding.DecodeString(stored)
	if err != nil {
		return nil, fmt.Errorf("decode history key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("history key has %d bytes, want %d", len(key), chacha20poly1305.KeySize)
	}
	return key, nil
}
