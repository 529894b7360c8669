// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import "errors"

var (
	// ErrConflict means the remote already holds different content under a
	// write-log key. Write-log blobs are immutable, so this indicates
	// corruption or a key collision and is never resolved by overwriting.
	ErrConflict = errors.New("remote holds different content for key")

	// ErrPush and ErrPull wrap the transfer failure of a single key.
	ErrPush = errors.New("push failed")
	ErrPull = errors.New("pull failed")
)
