package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/and161185/persona-keeper/internal/errs"
)

// MinMasterKeyLen is the minimum accepted master key size in bytes.
const MinMasterKeyLen = 32

// sealVersion prefixes every blob so the format can evolve.
const sealVersion byte = 1

var vaultKeyInfo = []byte("persona-keeper/credential-vault/v1")

// Sealer encrypts credentials with XChaCha20-Poly1305 under a key derived
// from the deployment master key. Blobs are version || nonce || ciphertext.
type Sealer struct {
	key []byte
}

// ParseMasterKey decodes a base64 (std or raw) master key and enforces its length.
func ParseMasterKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("master key is empty")
	}
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		key, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decode master key: %w", err)
		}
	}
	if len(key) < MinMasterKeyLen {
		return nil, fmt.Errorf("master key too short: %d bytes, want >= %d", len(key), MinMasterKeyLen)
	}
	return key, nil
}

// NewSealer derives the vault key from masterKey via HKDF-SHA256.
func NewSealer(masterKey []byte) (*Sealer, error) {
	if len(masterKey) < MinMasterKeyLen {
		return nil, fmt.Errorf("master key too short: %d bytes", len(masterKey))
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, vaultKeyInfo), key); err != nil {
		return nil, fmt.Errorf("derive vault key: %w", err)
	}
	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext with a fresh random nonce, binding aad.
func (s *Sealer) Seal(plaintext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCrypto, err)
	}
	nonce, err := RandBytes(chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %w", errs.ErrCrypto, err)
	}
	out := make([]byte, 0, 1+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, sealVersion)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, aad), nil
}

// Open decrypts a blob produced by Seal. Any tampering, a wrong key or a
// different aad yields errs.ErrCrypto.
func (s *Sealer) Open(blob, aad []byte) ([]byte, error) {
	if len(blob) < 1+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: blob too short", errs.ErrCrypto)
	}
	if blob[0] != sealVersion {
		return nil, fmt.Errorf("%w: unsupported blob version %d", errs.ErrCrypto, blob[0])
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCrypto, err)
	}
	nonce := blob[1 : 1+chacha20poly1305.NonceSizeX]
	ct := blob[1+chacha20poly1305.NonceSizeX:]
	pt, err := aead.Open(nil, nonce, ct, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", errs.ErrCrypto, err)
	}
	return pt, nil
}
