// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/MKhiriev/go-pastor/models"
)

// KeySize is the length in bytes of every vault key.
const KeySize = 32

// Registered envelope versions.
const (
	// VersionAESGCM is AES-256-GCM with a 12-byte random nonce.
	VersionAESGCM = "1.0.0"
	// VersionXChaCha is XChaCha20-Poly1305 with a 24-byte random nonce.
	VersionXChaCha = "2.0.0"

	// DefaultVersion is used for new envelopes unless configured otherwise.
	DefaultVersion = VersionAESGCM
)

type aeadFactory func(key []byte) (cipher.AEAD, error)

var algorithms = map[string]aeadFactory{
	VersionAESGCM: func(key []byte) (cipher.AEAD, error) {
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("create cipher: %w", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("create gcm: %w", err)
		}
		return gcm, nil
	},
	VersionXChaCha: func(key []byte) (cipher.AEAD, error) {
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, fmt.Errorf("create xchacha20-poly1305: %w", err)
		}
		return aead, nil
	},
}

// Versions returns all registered envelope versions in ascending order.
func Versions() []string {
	versions := make([]string, 0, len(algorithms))
	for v := range algorithms {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// codec is the private implementation of [Codec].
type codec struct {
	version string
	rand    io.Reader
}

// NewCodec returns a [Codec] that writes envelopes with the given version and
// reads every registered version. An empty version selects [DefaultVersion].
func NewCodec(version string) (Codec, error) {
	if version == "" {
		version = DefaultVersion
	}
	if _, ok := algorithms[version]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}
	return &codec{version: version, rand: rand.Reader}, nil
}

// Version implements [Codec].
func (c *codec) Version() string {
	return c.version
}

// Encrypt implements [Codec].
func (c *codec) Encrypt(id string, plaintext, key []byte) (models.Envelope, error) {
	if len(key) != KeySize {
		return models.Envelope{}, fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(key))
	}

	// 1. Build the AEAD for the current version
	aead, err := algorithms[c.version](key)
	if err != nil {
		return models.Envelope{}, err
	}

	// 2. Generate a random nonce
	nonce := make([]byte, aead.NonceSize())
	if _, err = io.ReadFull(c.rand, nonce); err != nil {
		return models.Envelope{}, fmt.Errorf("generate nonce: %w", err)
	}

	// 3. Seal with the record id as associated data
	ciphertext := aead.Seal(nil, nonce, plaintext, []byte(id))

	return models.Envelope{
		ID:       id,
		Version:  c.version,
		Nonce:    base64.StdEncoding.EncodeToString(nonce),
		Contents: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Decrypt implements [Codec].
func (c *codec) Decrypt(env models.Envelope, key []byte) ([]byte, error) {
	newAEAD, ok := algorithms[env.Version]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrDecrypt, ErrUnknownVersion, env.Version)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %w: got %d bytes", ErrDecrypt, ErrInvalidKey, len(key))
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}

	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: decode nonce: %w", ErrDecrypt, err)
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrDecrypt, len(nonce), aead.NonceSize())
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.Contents)
	if err != nil {
		return nil, fmt.Errorf("%w: decode contents: %w", ErrDecrypt, err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(env.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}

	return plaintext, nil
}

// EncryptJSON marshals v to JSON and seals it with c under id.
func EncryptJSON(c Codec, id string, v any, key []byte) (models.Envelope, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("marshal record: %w", err)
	}
	return c.Encrypt(id, plaintext, key)
}

// DecryptJSON opens env with c and unmarshals the plaintext into target,
// which must be a non-nil pointer. A plaintext that does not decode returns
// [ErrMalformedRecord].
func DecryptJSON(c Codec, env models.Envelope, key []byte, target any) error {
	plaintext, err := c.Decrypt(env, key)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return nil
}
