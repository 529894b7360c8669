// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pastor/models"
)

func newKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func newTestCodec(t *testing.T, version string) Codec {
	t.Helper()
	c, err := NewCodec(version)
	require.NoError(t, err)
	return c
}

// ── NewCodec ──────────────────────────────────────────────────────────────────

// TestNewCodec_DefaultVersion verifies that an empty version selects the
// default algorithm.
func TestNewCodec_DefaultVersion(t *testing.T) {
	c := newTestCodec(t, "")
	assert.Equal(t, DefaultVersion, c.Version())
}

// TestNewCodec_UnknownVersion verifies that an unregistered version is
// rejected at construction time.
func TestNewCodec_UnknownVersion(t *testing.T) {
	_, err := NewCodec("9.9.9")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

// TestVersions_ListsRegistered verifies the registry contents.
func TestVersions_ListsRegistered(t *testing.T) {
	assert.Equal(t, []string{VersionAESGCM, VersionXChaCha}, Versions())
}

// ── Encrypt / Decrypt ─────────────────────────────────────────────────────────

// TestCodec_RoundTrip verifies decrypt(encrypt(p, k), k) == p for every
// registered version and a range of payload sizes.
func TestCodec_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		[]byte("x"),
		[]byte(`{"type":"add_item","item_id":"40e44982-afc7-40fa-96c0-82ac4c11b8e0"}`),
		bytes.Repeat([]byte{0xAB}, 64*1024),
	}

	for _, version := range Versions() {
		t.Run(version, func(t *testing.T) {
			c := newTestCodec(t, version)
			key := newKey(t)

			for _, p := range payloads {
				env, err := c.Encrypt("record-id", p, key)
				require.NoError(t, err)
				assert.Equal(t, version, env.Version)
				assert.Equal(t, "record-id", env.ID)

				got, err := c.Decrypt(env, key)
				require.NoError(t, err)
				assert.Equal(t, len(p), len(got))
				assert.True(t, bytes.Equal(p, got))
			}
		})
	}
}

// TestCodec_FreshNonce verifies that two encryptions of the same plaintext
// under the same key never share a nonce or ciphertext.
func TestCodec_FreshNonce(t *testing.T) {
	c := newTestCodec(t, VersionAESGCM)
	key := newKey(t)

	a, err := c.Encrypt("id", []byte("same"), key)
	require.NoError(t, err)
	b, err := c.Encrypt("id", []byte("same"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.Contents, b.Contents)
}

// TestCodec_WrongKey verifies decrypt(encrypt(p, k1), k2) fails with
// ErrDecrypt.
func TestCodec_WrongKey(t *testing.T) {
	for _, version := range Versions() {
		t.Run(version, func(t *testing.T) {
			c := newTestCodec(t, version)
			env, err := c.Encrypt("id", []byte("secret"), newKey(t))
			require.NoError(t, err)

			got, err := c.Decrypt(env, newKey(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecrypt)
			assert.Nil(t, got)
		})
	}
}

// TestCodec_ReadsEveryVersion verifies that a codec configured for one
// version still opens envelopes written by another.
func TestCodec_ReadsEveryVersion(t *testing.T) {
	key := newKey(t)
	writer := newTestCodec(t, VersionXChaCha)
	reader := newTestCodec(t, VersionAESGCM)

	env, err := writer.Encrypt("id", []byte("payload"), key)
	require.NoError(t, err)

	got, err := reader.Decrypt(env, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

// TestCodec_Decrypt_Failures verifies that every malformed or tampered
// envelope fails with ErrDecrypt and yields no plaintext.
func TestCodec_Decrypt_Failures(t *testing.T) {
	c := newTestCodec(t, VersionAESGCM)
	key := newKey(t)
	good, err := c.Encrypt("id", []byte("payload"), key)
	require.NoError(t, err)

	flipped, _ := base64.StdEncoding.DecodeString(good.Contents)
	flipped[0] ^= 0xFF

	tests := []struct {
		name   string
		mutate func(e models.Envelope) models.Envelope
		isAlso error
	}{
		{
			name:   "unknown version",
			mutate: func(e models.Envelope) models.Envelope { e.Version = "0.0.1"; return e },
			isAlso: ErrUnknownVersion,
		},
		{
			name:   "swapped record id",
			mutate: func(e models.Envelope) models.Envelope { e.ID = "other"; return e },
		},
		{
			name: "tampered contents",
			mutate: func(e models.Envelope) models.Envelope {
				e.Contents = base64.StdEncoding.EncodeToString(flipped)
				return e
			},
		},
		{
			name:   "nonce not base64",
			mutate: func(e models.Envelope) models.Envelope { e.Nonce = "abc"; return e },
		},
		{
			name:   "contents not base64",
			mutate: func(e models.Envelope) models.Envelope { e.Contents = "def"; return e },
		},
		{
			name: "short nonce",
			mutate: func(e models.Envelope) models.Envelope {
				e.Nonce = base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
				return e
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Decrypt(tt.mutate(good), key)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecrypt)
			if tt.isAlso != nil {
				assert.ErrorIs(t, err, tt.isAlso)
			}
			assert.Nil(t, got)
		})
	}
}

// TestCodec_Encrypt_InvalidKey verifies that a short key is rejected.
func TestCodec_Encrypt_InvalidKey(t *testing.T) {
	c := newTestCodec(t, VersionAESGCM)
	_, err := c.Encrypt("id", []byte("p"), []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

// ── EncryptJSON / DecryptJSON ─────────────────────────────────────────────────

// TestJSON_RoundTrip verifies the JSON helpers with a real record type.
func TestJSON_RoundTrip(t *testing.T) {
	c := newTestCodec(t, VersionXChaCha)
	key := newKey(t)
	item := models.Item{
		ID:   "40e44982-afc7-40fa-96c0-82ac4c11b8e0",
		Name: "Bank",
		Values: []models.Value{
			{ID: "v1", Name: "password", Data: models.PasswordValue{Secret: "hunter2"}},
		},
	}

	env, err := EncryptJSON(c, item.ID, item, key)
	require.NoError(t, err)

	var got models.Item
	require.NoError(t, DecryptJSON(c, env, key, &got))
	assert.Equal(t, item, got)
}

// TestDecryptJSON_Malformed verifies that a plaintext which is not the
// expected JSON is reported as ErrMalformedRecord rather than ErrDecrypt.
func TestDecryptJSON_Malformed(t *testing.T) {
	c := newTestCodec(t, VersionAESGCM)
	key := newKey(t)
	env, err := c.Encrypt("id", []byte("not json"), key)
	require.NoError(t, err)

	var target models.Item
	err = DecryptJSON(c, env, key, &target)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.NotErrorIs(t, err, ErrDecrypt)
}
