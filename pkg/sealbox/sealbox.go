// Package sealbox provides authenticated encryption for snapshot files.
//
// A Box wraps an AEAD chosen for the host: AES-GCM where hardware
// acceleration is available (amd64, arm64), ChaCha20-Poly1305 elsewhere.
// Keys are derived from an operator-supplied passphrase with SHA-256,
// so any non-empty passphrase yields a valid 32-byte key.
package sealbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm identifies the AEAD used by a Box.
type Algorithm string

const (
	AlgoAESGCM   Algorithm = "aes-gcm"
	AlgoChaCha20 Algorithm = "chacha20-poly1305"
	AlgoAuto     Algorithm = "auto"
)

// ErrNoKey indicates an empty passphrase was supplied.
var ErrNoKey = errors.New("sealbox: empty passphrase")

// Box seals and opens byte payloads with authenticated encryption.
type Box struct {
	aead cipher.AEAD
	algo Algorithm
}

// New creates a Box from a passphrase, picking the AEAD for the host.
func New(passphrase string) (*Box, error) {
	return NewWithAlgorithm(passphrase, AlgoAuto)
}

// NewWithAlgorithm creates a Box with an explicit algorithm choice.
func NewWithAlgorithm(passphrase string, algo Algorithm) (*Box, error) {
	if passphrase == "" {
		return nil, ErrNoKey
	}
	key := sha256.Sum256([]byte(passphrase))

	if algo == AlgoAuto {
		algo = preferredAlgorithm()
	}

	switch algo {
	case AlgoAESGCM:
		block, err := aes.NewCipher(key[:])
		if err != nil {
			return nil, err
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		return &Box{aead: aead, algo: AlgoAESGCM}, nil

	case AlgoChaCha20:
		aead, err := chacha20poly1305.New(key[:])
		if err != nil {
			return nil, err
		}
		return &Box{aead: aead, algo: AlgoChaCha20}, nil

	default:
		return nil, fmt.Errorf("sealbox: unknown algorithm %q", algo)
	}
}

// preferredAlgorithm picks AES-GCM on architectures where Go uses
// hardware AES, ChaCha20-Poly1305 otherwise.
func preferredAlgorithm() Algorithm {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return AlgoAESGCM
	default:
		return AlgoChaCha20
	}
}

// Algorithm returns the AEAD in use.
func (b *Box) Algorithm() Algorithm {
	return b.algo
}

// Seal encrypts plaintext, binding additionalData into the
// authentication tag. The random nonce is prepended to the result.
func (b *Box) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return b.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open decrypts a payload produced by Seal with the same
// additionalData. Tampered or truncated payloads fail.
func (b *Box) Open(sealed, additionalData []byte) ([]byte, error) {
	if len(sealed) < b.aead.NonceSize() {
		return nil, errors.New("sealbox: payload too short")
	}
	nonce, ciphertext := sealed[:b.aead.NonceSize()], sealed[b.aead.NonceSize():]
	return b.aead.Open(nil, nonce, ciphertext, additionalData)
}
