package history

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCorruptSnapshot is returned when a snapshot file cannot be opened
var ErrCorruptSnapshot = errors.New("corrupt history snapshot")

// snapshotMagic prefixes every sealed snapshot and is bound as associated data
var snapshotMagic = []byte("NPH1")

// vault seals snapshots as JSON, compressed with zstd, encrypted with
// XChaCha20-Poly1305: magic || nonce || ciphertext.
type vault struct {
	path string
	aead cipher.AEAD
}

func newVault(path string, key []byte) (*vault, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init history cipher: %w", err)
	}
	return &vault{path: path, aead: aead}, nil
}

func (v *vault) seal(snap snapshot) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return nil, fmt.Errorf("encode history: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	out := append(append([]byte{}, snapshotMagic...), nonce...)
	return v.aead.Seal(out, nonce, buf.Bytes(), snapshotMagic), nil
}

func (v *vault) unseal(data []byte) (snapshot, error) {
	var snap snapshot
	header := len(snapshotMagic) + v.aead.NonceSize()
	if len(data) < header+v.aead.Overhead() || !bytes.HasPrefix(data, snapshotMagic) {
		return snap, ErrCorruptSnapshot
	}
	nonce := data[len(snapshotMagic):header]
	plain, err := v.aead.Open(nil, nonce, data[header:], snapshotMagic)
	if err != nil {
		return snap, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	zr, err := zstd.NewReader(bytes.NewReader(plain))
	if err != nil {
		return snap, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	defer zr.Close()
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return snap, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return snap, nil
}

// write seals snap and atomically replaces the snapshot file
func (v *vault) write(snap snapshot) error {
	data, err := v.seal(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	tmp := v.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, v.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (v *vault) read() (snapshot, error) {
	data, err := os.ReadFile(v.path)
	if err != nil {
		return snapshot{}, err
	}
	return v.unseal(data)
}
