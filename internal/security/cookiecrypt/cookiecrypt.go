// Package cookiecrypt encrypts short strings for storage in browser cookies.
//
// Two encodings are provided. CBC produces base64(IV || AES-256-CBC) with
// PKCS#7 padding and offers confidentiality only. GCM produces
// base64(nonce || AES-256-GCM) and rejects any modified ciphertext. Both use
// a 32-byte key derived with NormalizeKey.
package cookiecrypt

import (
	"errors"
	"fmt"
	"strings"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// Modes accepted by New.
const (
	ModeCBC = "cbc"
	ModeGCM = "gcm"
)

var (
	ErrMalformed = errors.New("cookiecrypt: malformed ciphertext")
	ErrDecrypt   = errors.New("cookiecrypt: decryption failed")
)

// Cipher is a reversible string transform keyed by process configuration.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}

// NormalizeKey returns exactly KeySize bytes: the configured key truncated
// when longer, zero-padded when shorter.
func NormalizeKey(key string) []byte {
	out := make([]byte, KeySize)
	copy(out, key)
	return out
}

// New builds the cipher selected by mode.
func New(mode, key string) (Cipher, error) {
	if key == "" {
		return nil, errors.New("cookiecrypt: encryption key is not configured")
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeCBC:
		return NewCBC(key)
	case ModeGCM, "":
		return NewGCM(key)
	default:
		return nil, fmt.Errorf("cookiecrypt: unknown mode %q", mode)
	}
}
