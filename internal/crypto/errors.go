// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrDecrypt is returned when an envelope cannot be opened: the
	// authentication tag does not verify (wrong key, corruption, tampering),
	// the encoding is malformed, or the version is unknown.
	ErrDecrypt = errors.New("decrypt error")

	// ErrUnknownVersion is returned together with [ErrDecrypt] when an
	// envelope carries a version no registered algorithm handles.
	ErrUnknownVersion = errors.New("unknown envelope version")

	// ErrInvalidKey is returned when a key has the wrong length.
	ErrInvalidKey = errors.New("invalid key size")
)

// ErrMalformedRecord is returned by [DecryptJSON] when an envelope opens
// correctly but its plaintext does not decode into the target.
var ErrMalformedRecord = errors.New("malformed record")
