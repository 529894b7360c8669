// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/crypto"
	"github.com/MKhiriev/go-pastor/internal/metrics"
	"github.com/MKhiriev/go-pastor/internal/mock"
	"github.com/MKhiriev/go-pastor/internal/vault"
	"github.com/MKhiriev/go-pastor/internal/writelog"
	"github.com/MKhiriev/go-pastor/models"
)

var base = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func entryKey(sec int, writeID string) string {
	return writelog.EntryKey(models.LogicalTimestamp{Wall: base.Add(time.Duration(sec) * time.Second).UnixMilli()}, writeID)
}

var (
	keyA   = entryKey(1, "01928c7e-4b6a-7cde-8f00-00000000000a")
	keyB   = entryKey(2, "01928c7e-4b6a-7cde-8f00-00000000000b")
	keyC   = entryKey(3, "01928c7e-4b6a-7cde-8f00-00000000000c")
	attB   = writelog.AttachmentKey(keyB, "01928c7e-4b6a-7cde-8f00-0000000000bb")
	allKey = []string{keyA, keyB, attB, keyC}
)

func seed(t *testing.T, store blob.Store, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, store.Write(context.Background(), k, []byte("blob:"+k)))
	}
}

func writeKeys(t *testing.T, store blob.Store) []string {
	t.Helper()
	keys, err := blob.Walk(context.Background(), store, writelog.Dir)
	require.NoError(t, err)
	return keys
}

// ── Sync ──

// TestSync_UnionOfBothSides verifies that each side receives exactly the
// keys it lacked, byte for byte.
func TestSync_UnionOfBothSides(t *testing.T) {
	ctx := context.Background()
	local, far := blob.NewMemoryStore(), blob.NewMemoryStore()
	seed(t, local, keyA, keyB, attB)
	seed(t, far, keyA, keyC)
	require.NoError(t, local.Write(ctx, "current-state.json", []byte("{}")))

	m := metrics.Nop()
	res, err := New(local, NewStoreRemote(far), WithMetrics(m)).Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, Result{Pushed: 2, Pulled: 1}, res)
	assert.ElementsMatch(t, allKey, writeKeys(t, local))
	assert.ElementsMatch(t, allKey, writeKeys(t, far))
	for _, k := range allKey {
		data, err := far.Read(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, "blob:"+k, string(data))
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BlobsPushed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BlobsPulled))

	_, err = far.Read(ctx, "current-state.json")
	assert.ErrorIs(t, err, blob.ErrNotFound, "only writes/ is synced")
}

// TestSync_Idempotent verifies that a second round moves nothing.
func TestSync_Idempotent(t *testing.T) {
	ctx := context.Background()
	local, far := blob.NewMemoryStore(), blob.NewMemoryStore()
	seed(t, local, keyA, keyB, attB)
	seed(t, far, keyC)
	r := New(local, NewStoreRemote(far))

	_, err := r.Sync(ctx)
	require.NoError(t, err)
	before := writeKeys(t, far)

	res, err := r.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Equal(t, before, writeKeys(t, far))
}

// TestSync_AttachmentsBeforeEntries verifies the push order.
func TestSync_AttachmentsBeforeEntries(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemote(ctrl)
	local := blob.NewMemoryStore()
	seed(t, local, keyB, attB)

	remote.EXPECT().ListKeys(gomock.Any()).Return(nil, nil)
	gomock.InOrder(
		remote.EXPECT().Put(gomock.Any(), attB, []byte("blob:"+attB)).Return(nil),
		remote.EXPECT().Put(gomock.Any(), keyB, []byte("blob:"+keyB)).Return(nil),
	)

	res, err := New(local, remote).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pushed)
}

// TestSync_PullOrderAndFiltering verifies that pulled attachments land
// before their entries and that keys outside the write log are ignored.
func TestSync_PullOrderAndFiltering(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemote(ctrl)
	local := blob.NewMemoryStore()

	remote.EXPECT().ListKeys(gomock.Any()).
		Return([]string{keyB, attB, "writes/notes.txt", "device-id", "writes/../current-state.json"}, nil)
	gomock.InOrder(
		remote.EXPECT().Get(gomock.Any(), attB).Return([]byte("att"), nil),
		remote.EXPECT().Get(gomock.Any(), keyB).Return([]byte("entry"), nil),
	)

	res, err := New(local, remote).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Pulled: 2}, res)
	assert.ElementsMatch(t, []string{keyB, attB}, writeKeys(t, local))
	assert.Equal(t, 2, local.Len())
}

// TestSync_ResumesAfterFailure verifies that a failed round reports partial
// progress and the next round completes the transfer.
func TestSync_ResumesAfterFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemote(ctrl)
	local := blob.NewMemoryStore()
	seed(t, local, keyA, keyC)

	gomock.InOrder(
		remote.EXPECT().ListKeys(gomock.Any()).Return(nil, nil),
		remote.EXPECT().Put(gomock.Any(), keyA, gomock.Any()).Return(nil),
		remote.EXPECT().Put(gomock.Any(), keyC, gomock.Any()).Return(assert.AnError),
		remote.EXPECT().ListKeys(gomock.Any()).Return([]string{keyA}, nil),
		remote.EXPECT().Put(gomock.Any(), keyC, gomock.Any()).Return(nil),
	)

	r := New(local, remote)
	res, err := r.Sync(ctx)
	assert.ErrorIs(t, err, ErrPush)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, Result{Pushed: 1}, res)

	res, err = r.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Pushed: 1}, res)
}

// TestSync_ListFailure verifies that nothing moves when the remote cannot
// be listed.
func TestSync_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemote(ctrl)
	local := blob.NewMemoryStore()
	seed(t, local, keyA)

	remote.EXPECT().ListKeys(gomock.Any()).Return(nil, assert.AnError)

	res, err := New(local, remote).Sync(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, Result{}, res)
}

// ── StoreRemote ──

// TestStoreRemote_PutIsImmutable verifies that identical re-puts succeed
// and differing ones conflict without overwriting.
func TestStoreRemote_PutIsImmutable(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemoryStore()
	remote := NewStoreRemote(store)

	require.NoError(t, remote.Put(ctx, keyA, []byte("one")))
	require.NoError(t, remote.Put(ctx, keyA, []byte("one")))
	assert.ErrorIs(t, remote.Put(ctx, keyA, []byte("two")), ErrConflict)

	data, err := remote.Get(ctx, keyA)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)

	_, err = remote.Get(ctx, keyB)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

// ── with vaults ──

// TestSync_VaultsConverge verifies that two devices exchanging entries
// through a shared directory end up with the same items, and that no vault
// key is involved in moving them.
func TestSync_VaultsConverge(t *testing.T) {
	ctx := context.Background()
	kdf := vault.WithKDFParams(crypto.KDFParams{Time: 1, Memory: 64, Threads: 1})
	shared := NewStoreRemote(blob.NewMemoryStore())

	storeA := blob.NewMemoryStore()
	_, err := vault.Create(ctx, storeA, "Shared", "pw", kdf, vault.WithDeviceID("device-a"))
	require.NoError(t, err)
	doc, err := storeA.Read(ctx, vault.CurrentStateKey)
	require.NoError(t, err)
	storeB := blob.NewMemoryStore()
	require.NoError(t, storeB.Write(ctx, vault.CurrentStateKey, doc))

	open := func(store blob.Store, device string) *vault.Vault {
		v, err := vault.Open(ctx, store, kdf, vault.WithDeviceID(device))
		require.NoError(t, err)
		require.NoError(t, v.Unlock(ctx, "pw"))
		return v
	}
	a, b := open(storeA, "device-a"), open(storeB, "device-b")

	item, err := a.AddItem(ctx, "Mail")
	require.NoError(t, err)
	_, err = a.AddAttachment(ctx, item.ID, models.Value{Name: "key"}, []byte{0x01, 0x02})
	require.NoError(t, err)
	_, err = b.AddItem(ctx, "Bank")
	require.NoError(t, err)

	jobA := NewJob(New(storeA, shared), a.Refresh, nil)
	jobB := NewJob(New(storeB, shared), b.Refresh, nil)
	require.NoError(t, jobA.RunOnce(ctx))
	require.NoError(t, jobB.RunOnce(ctx))
	require.NoError(t, jobA.RunOnce(ctx))

	itemsA, err := a.FetchItems()
	require.NoError(t, err)
	itemsB, err := b.FetchItems()
	require.NoError(t, err)
	assert.Len(t, itemsA, 2)
	assert.ElementsMatch(t, itemsA, itemsB)

	att := itemsB[0].Values
	if len(att) == 0 {
		att = itemsB[1].Values
	}
	require.Len(t, att, 1)
	data, err := b.FetchAttachmentData(ctx, att[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, data)
}
