// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package replication moves write-log blobs between a local vault store and
// a remote. It copies ciphertext only and never needs the vault key.
package replication

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/replication_mock.go -package=mock

// Remote is the far side of a sync: a relay, a shared directory or a bucket.
// Keys are write-log keys relative to the vault root, e.g.
// "writes/2026/10/14/09-00-00-<write-id>.json".
type Remote interface {
	// ListKeys returns every key under writes/ the remote holds.
	ListKeys(ctx context.Context) ([]string, error)

	// Get returns the content stored at key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data at key. Putting the same bytes again is a no-op;
	// putting different bytes under an existing key fails with
	// [ErrConflict].
	Put(ctx context.Context, key string, data []byte) error
}
