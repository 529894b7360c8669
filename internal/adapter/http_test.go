// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/models"
)

const (
	testVaultID   = "ba64a896-47ff-4e5c-af5c-9461b71e9a48"
	testAccessKey = "shared-key"
	testKey       = "writes/2026/10/14/09-00-00-0192f0a3-0000-7000-8000-000000000001.json"
)

// fakeRelay is a minimal relay: it issues numbered tokens, stores blobs
// immutably and can be told to reject the next n tokens.
type fakeRelay struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	issued    int
	rejectN   int
	tokenHits int
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{blobs: map[string][]byte{}}
}

func (f *fakeRelay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/api/token" {
		f.tokenHits++
		var req models.TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccessKey != testAccessKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.issued++
		token := "token-" + string(rune('0'+f.issued))
		w.Header().Set("Authorization", "Bearer "+token)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.TokenResponse{Token: token})
		return
	}

	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer token-") || f.rejectN > 0 {
		if f.rejectN > 0 {
			f.rejectN--
		}
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	prefix := "/api/vaults/" + testVaultID + "/writes"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, prefix)

	switch {
	case r.Method == http.MethodGet && rest == "":
		keys := []string{}
		for k := range f.blobs {
			keys = append(keys, k)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.KeyList{Keys: keys})
	case r.Method == http.MethodGet:
		data, ok := f.blobs["writes"+rest]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(data)
	case r.Method == http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		if existing, ok := f.blobs["writes"+rest]; ok {
			if bytes.Equal(existing, data) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte("write is immutable"))
			return
		}
		f.blobs["writes"+rest] = data
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeRelay) hits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenHits
}

func newTestClient(t *testing.T, serverURL, accessKey string) *RelayClient {
	t.Helper()
	c, err := NewRelayClient(RelayClientConfig{
		Address:   serverURL,
		VaultID:   testVaultID,
		AccessKey: accessKey,
	}, logger.Nop())
	require.NoError(t, err)
	c.client.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(time.Millisecond)
	return c
}

// ── NewRelayClient ──────────────────────────────────────────────────────────

// TestNewRelayClient_Address checks base URL normalisation and rejection.
func TestNewRelayClient_Address(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{"with scheme", "http://localhost:8080", false},
		{"without scheme", "localhost:8080", false},
		{"trailing slash", "https://relay.example.com/", false},
		{"empty", "  ", true},
		{"no host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRelayClient(RelayClientConfig{Address: tt.address, VaultID: testVaultID}, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// TestNewRelayClient_RequiresVaultID verifies a vault id is mandatory.
func TestNewRelayClient_RequiresVaultID(t *testing.T) {
	_, err := NewRelayClient(RelayClientConfig{Address: "localhost:1"}, nil)
	assert.Error(t, err)
}

// ── Authenticate ────────────────────────────────────────────────────────────

// TestAuthenticate_Success verifies the token exchange request and that the
// token is stored.
func TestAuthenticate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/token", r.URL.Path)

		var req models.TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, testVaultID, req.VaultID)
		assert.Equal(t, testAccessKey, req.AccessKey)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.TokenResponse{Token: "abc"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, testAccessKey)
	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, "abc", c.Token())
}

// TestAuthenticate_HeaderFallback verifies that the Authorization response
// header is used when the body carries no token.
func TestAuthenticate_HeaderFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer from-header")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, testAccessKey)
	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, "from-header", c.Token())
}

// TestAuthenticate_WrongAccessKey verifies that a rejected key maps to
// ErrUnauthorized.
func TestAuthenticate_WrongAccessKey(t *testing.T) {
	srv := httptest.NewServer(newFakeRelay())
	defer srv.Close()

	c := newTestClient(t, srv.URL, "wrong")
	err := c.Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, c.Token())
}

// ── Put / Get / ListKeys ────────────────────────────────────────────────────

// TestPutGetList_RoundTrip verifies that a put blob is listed and read back.
func TestPutGetList_RoundTrip(t *testing.T) {
	relay := newFakeRelay()
	srv := httptest.NewServer(relay)
	defer srv.Close()
	ctx := context.Background()

	c := newTestClient(t, srv.URL, testAccessKey)
	require.NoError(t, c.Put(ctx, testKey, []byte(`{"id":"x"}`)))

	keys, err := c.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{testKey}, keys)

	data, err := c.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"x"}`), data)
	assert.Equal(t, 1, relay.hits())
}

// TestPut_IdenticalIsNoop verifies that re-putting the same bytes succeeds.
func TestPut_IdenticalIsNoop(t *testing.T) {
	srv := httptest.NewServer(newFakeRelay())
	defer srv.Close()
	ctx := context.Background()

	c := newTestClient(t, srv.URL, testAccessKey)
	require.NoError(t, c.Put(ctx, testKey, []byte("same")))
	assert.NoError(t, c.Put(ctx, testKey, []byte("same")))
}

// TestPut_Conflict verifies that different bytes under an existing key map
// to ErrConflict.
func TestPut_Conflict(t *testing.T) {
	srv := httptest.NewServer(newFakeRelay())
	defer srv.Close()
	ctx := context.Background()

	c := newTestClient(t, srv.URL, testAccessKey)
	require.NoError(t, c.Put(ctx, testKey, []byte("first")))

	err := c.Put(ctx, testKey, []byte("second"))
	assert.ErrorIs(t, err, ErrConflict)
}

// TestGet_NotFound verifies that a missing key matches both the adapter and
// the blob sentinels.
func TestGet_NotFound(t *testing.T) {
	srv := httptest.NewServer(newFakeRelay())
	defer srv.Close()

	c := newTestClient(t, srv.URL, testAccessKey)
	_, err := c.Get(context.Background(), testKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, blob.ErrNotFound)
	assert.ErrorIs(t, err, blob.ErrRead)
}

// TestKeyPath_RejectsForeignKeys verifies that keys outside writes/ are
// refused before any request.
func TestKeyPath_RejectsForeignKeys(t *testing.T) {
	c := newTestClient(t, "localhost:1", testAccessKey)

	for _, key := range []string{"current-state.json", "writes/../device-id", ""} {
		err := c.Put(context.Background(), key, []byte("x"))
		assert.ErrorIs(t, err, blob.ErrInvalidKey, key)
	}
}

// ── re-authentication ───────────────────────────────────────────────────────

// TestDo_ReauthenticatesOnceOn401 verifies that an expired token is replaced
// and the request retried.
func TestDo_ReauthenticatesOnceOn401(t *testing.T) {
	relay := newFakeRelay()
	srv := httptest.NewServer(relay)
	defer srv.Close()
	ctx := context.Background()

	c := newTestClient(t, srv.URL, testAccessKey)
	require.NoError(t, c.Authenticate(ctx))

	relay.mu.Lock()
	relay.rejectN = 1
	relay.mu.Unlock()

	_, err := c.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, relay.hits())
	assert.Equal(t, "token-2", c.Token())
}

// TestDo_GivesUpAfterSecond401 verifies that a second 401 is returned as
// ErrUnauthorized.
func TestDo_GivesUpAfterSecond401(t *testing.T) {
	relay := newFakeRelay()
	relay.rejectN = 2
	srv := httptest.NewServer(relay)
	defer srv.Close()

	c := newTestClient(t, srv.URL, testAccessKey)
	_, err := c.ListKeys(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── mapHTTPError ────────────────────────────────────────────────────────────

// TestMapHTTPError_StatusCodes checks status to sentinel mapping.
func TestMapHTTPError_StatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusRequestEntityTooLarge, ErrPayloadTooLarge},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusServiceUnavailable, ErrUnavailable},
		{http.StatusInternalServerError, ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, testAccessKey)
			c.setToken("preset")

			_, err := c.ListKeys(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// TestMapHTTPError_Unmapped verifies that other codes carry the status text.
func TestMapHTTPError_Unmapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, testAccessKey)
	c.setToken("preset")

	_, err := c.ListKeys(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "418")
}
