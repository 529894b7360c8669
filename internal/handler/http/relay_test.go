// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pastor/internal/adapter"
	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/replication"
)

const (
	relayEntryKey      = "writes/2026/10/14/09-30-00-40e44982-4c6f-4a52-9a1c-3f1e5b7d7c01.json"
	relayAttachmentKey = "writes/2026/10/14/09-30-00-40e44982-4c6f-4a52-9a1c-3f1e5b7d7c01-attachments/a1"
	relayEnvelope      = `{"id":"40e44982-4c6f-4a52-9a1c-3f1e5b7d7c01","version":"1.0.0","nonce":"AAECAwQFBgcICQoL","contents":"c2VjcmV0"}`
)

func newRelayClient(t *testing.T, addr, vaultID string) *adapter.RelayClient {
	t.Helper()
	c, err := adapter.NewRelayClient(adapter.RelayClientConfig{
		Address:   addr,
		VaultID:   vaultID,
		AccessKey: testAccessKey,
	}, logger.Nop())
	require.NoError(t, err)
	return c
}

// ── relay round trip ──

// TestRelay_ReplicatesBetweenDevices syncs two devices through a live relay
// and checks both converge on the union of their write logs.
func TestRelay_ReplicatesBetweenDevices(t *testing.T) {
	ctx := context.Background()
	router, reg := newRelay(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	vaultID := uuid.NewString()
	deviceA, deviceB := blob.NewMemoryStore(), blob.NewMemoryStore()
	require.NoError(t, deviceA.Write(ctx, relayEntryKey, []byte(relayEnvelope)))
	require.NoError(t, deviceA.Write(ctx, relayAttachmentKey, []byte{0x01, 0x02}))

	syncA := replication.New(deviceA, newRelayClient(t, srv.URL, vaultID))
	syncB := replication.New(deviceB, newRelayClient(t, srv.URL, vaultID))

	res, err := syncA.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, replication.Result{Pushed: 2}, res)

	res, err = syncB.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, replication.Result{Pulled: 2}, res)

	got, err := deviceB.Read(ctx, relayAttachmentKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, got)

	res, err = syncA.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, replication.Result{}, res)

	assert.Positive(t, testutil.ToFloat64(newRequestsCounter(t, reg, "PUT", "201")))
}

// TestRelay_RejectsMutation checks an existing write cannot be replaced
// through the relay.
func TestRelay_RejectsMutation(t *testing.T) {
	ctx := context.Background()
	router, _ := newRelay(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := newRelayClient(t, srv.URL, uuid.NewString())

	require.NoError(t, client.Put(ctx, relayAttachmentKey, []byte("original")))
	require.NoError(t, client.Put(ctx, relayAttachmentKey, []byte("original")))

	err := client.Put(ctx, relayAttachmentKey, []byte("tampered"))
	require.ErrorIs(t, err, replication.ErrConflict)

	got, err := client.Get(ctx, relayAttachmentKey)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

// TestRelay_IsolatesVaults checks one vault's writes are invisible to
// another.
func TestRelay_IsolatesVaults(t *testing.T) {
	ctx := context.Background()
	router, _ := newRelay(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	a := newRelayClient(t, srv.URL, uuid.NewString())
	b := newRelayClient(t, srv.URL, uuid.NewString())

	require.NoError(t, a.Put(ctx, relayEntryKey, []byte(relayEnvelope)))

	keys, err := b.ListKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = b.Get(ctx, relayEntryKey)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

// TestRelay_WrongAccessKey checks a device without the shared key is
// refused.
func TestRelay_WrongAccessKey(t *testing.T) {
	router, _ := newRelay(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	c, err := adapter.NewRelayClient(adapter.RelayClientConfig{
		Address:   srv.URL,
		VaultID:   uuid.NewString(),
		AccessKey: "guess",
	}, logger.Nop())
	require.NoError(t, err)

	err = c.Authenticate(context.Background())
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
}
