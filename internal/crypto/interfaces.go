// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "github.com/MKhiriev/go-pastor/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// Codec seals records into versioned envelopes and opens them again.
//
// The record id is bound into the authenticated data, so an envelope cannot
// be replayed under a different id. Implementations have no side effects
// beyond CPU.
type Codec interface {
	// Encrypt seals plaintext under key with a fresh random nonce and stamps
	// the codec's current version.
	Encrypt(id string, plaintext, key []byte) (models.Envelope, error)

	// Decrypt opens env with key. It returns an error matching [ErrDecrypt]
	// if the tag does not verify or the version is not registered; it never
	// returns partial plaintext.
	Decrypt(env models.Envelope, key []byte) ([]byte, error)

	// Version returns the version stamped on new envelopes.
	Version() string
}

// KDF derives a symmetric vault key from a password.
type KDF interface {
	// DeriveKey returns a [KeySize]-byte key for password and salt.
	// Identical inputs always produce the same key.
	DeriveKey(password string, salt []byte) []byte
}
