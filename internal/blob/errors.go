// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package blob

import "errors"

// Sentinel errors returned by [Store] implementations. Implementations wrap
// the underlying cause, so callers match with [errors.Is].
var (
	// ErrRead is returned when content cannot be read.
	ErrRead = errors.New("blob read error")

	// ErrWrite is returned when content cannot be written, replaced or
	// removed.
	ErrWrite = errors.New("blob write error")

	// ErrNotFound is returned together with [ErrRead] when the key does not
	// exist.
	ErrNotFound = errors.New("blob not found")

	// ErrInvalidKey is returned when a key is empty, absolute, contains ".."
	// or empty segments.
	ErrInvalidKey = errors.New("invalid blob key")
)
