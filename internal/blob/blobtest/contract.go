// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package blobtest provides a conformance suite for [blob.Store]
// implementations.
package blobtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pastor/internal/blob"
)

// Run exercises the [blob.Store] contract against stores produced by
// newStore. Each subtest gets a fresh, empty store.
func Run(t *testing.T, newStore func(t *testing.T) blob.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("write then read", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Write(ctx, "current-state.json", []byte(`{"id":"x"}`)))

		got, err := s.Read(ctx, "current-state.json")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"id":"x"}`), got)
	})

	t.Run("write replaces", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Write(ctx, "a/b", []byte("first")))
		require.NoError(t, s.Write(ctx, "a/b", []byte("second")))

		got, err := s.Read(ctx, "a/b")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("read missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Read(ctx, "writes/missing.json")
		require.Error(t, err)
		assert.ErrorIs(t, err, blob.ErrRead)
		assert.ErrorIs(t, err, blob.ErrNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Write(ctx, "attachments/y", []byte{1, 2}))
		require.NoError(t, s.Remove(ctx, "attachments/y"))

		_, err := s.Read(ctx, "attachments/y")
		assert.ErrorIs(t, err, blob.ErrNotFound)

		// removing again is not an error
		assert.NoError(t, s.Remove(ctx, "attachments/y"))
	})

	t.Run("list children", func(t *testing.T) {
		s := newStore(t)
		for _, key := range []string{
			"current-state.json",
			"writes/2026/10/14/09-00-00-b.json",
			"writes/2026/10/14/09-00-00-a.json",
			"writes/2026/10/14/09-00-00-a-attachments/y",
			"writes/2026/10/13/23-59-59-c.json",
		} {
			require.NoError(t, s.Write(ctx, key, []byte("x")))
		}

		root, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"current-state.json", "writes/"}, root)

		days, err := s.List(ctx, "writes/2026/10")
		require.NoError(t, err)
		assert.Equal(t, []string{"13/", "14/"}, days)

		files, err := s.List(ctx, "writes/2026/10/14/")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"09-00-00-a-attachments/",
			"09-00-00-a.json",
			"09-00-00-b.json",
		}, files)
	})

	t.Run("list missing prefix", func(t *testing.T) {
		s := newStore(t)
		names, err := s.List(ctx, "writes")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("walk", func(t *testing.T) {
		s := newStore(t)
		for _, key := range []string{
			"writes/2026/10/14/09-00-00-a.json",
			"writes/2026/10/14/09-00-00-a-attachments/y",
			"writes/2026/01/01/00-00-00-z.json",
			"current-state.json",
		} {
			require.NoError(t, s.Write(ctx, key, []byte("x")))
		}

		keys, err := blob.Walk(ctx, s, "writes")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"writes/2026/01/01/00-00-00-z.json",
			"writes/2026/10/14/09-00-00-a-attachments/y",
			"writes/2026/10/14/09-00-00-a.json",
		}, keys)
	})

	t.Run("invalid keys", func(t *testing.T) {
		s := newStore(t)
		for _, key := range []string{"", "/abs", "../escape", "a//b", "a/./b", "dir/"} {
			err := s.Write(ctx, key, []byte("x"))
			assert.ErrorIs(t, err, blob.ErrInvalidKey, "key %q", key)
			assert.ErrorIs(t, err, blob.ErrWrite, "key %q", key)

			_, err = s.Read(ctx, key)
			assert.ErrorIs(t, err, blob.ErrInvalidKey, "key %q", key)
		}
	})
}
