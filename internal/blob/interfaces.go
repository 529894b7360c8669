// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package blob

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/blob_store_mock.go -package=mock

// Store is byte-addressable storage keyed by relative, slash-separated
// paths. A vault owns one Store and passes it explicitly to everything that
// does I/O.
//
// Implementations must make Write atomic: after it returns, readers observe
// either the previous content or the complete new content, never a prefix.
type Store interface {
	// Read returns the content stored at key. Failures match [ErrRead]; a
	// missing key also matches [ErrNotFound].
	Read(ctx context.Context, key string) ([]byte, error)

	// Write atomically replaces the content at key, creating parent
	// "directories" as needed. Failures match [ErrWrite].
	Write(ctx context.Context, key string, data []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// List returns the sorted immediate children of prefix. Children that
	// have children of their own are returned with a trailing "/". An empty
	// prefix lists the root; a missing prefix yields an empty list.
	List(ctx context.Context, prefix string) ([]string, error)
}
