// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"errors"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/crypto"
	"github.com/MKhiriev/go-pastor/internal/writelog"
)

// Error classes. Every error returned by this package matches exactly one
// class with errors.Is, except ErrVaultLocked from a failed unlock, which
// also wraps the ErrDecrypt that caused it.
var (
	// ErrVaultLocked is returned for any operation attempted while locked
	// and for an unlock with the wrong password.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrRead is a blob store read failure.
	ErrRead = blob.ErrRead

	// ErrWrite is a blob store write failure. The operation had no effect.
	ErrWrite = blob.ErrWrite

	// ErrDecrypt means an envelope failed authentication or carries an
	// unknown version.
	ErrDecrypt = crypto.ErrDecrypt

	// ErrDecode means a document, identifier or record is malformed.
	ErrDecode = writelog.ErrDecode

	// ErrUnknown is reserved for conditions no other class describes.
	ErrUnknown = errors.New("unknown vault error")
)

// Validation errors for mutations rejected before anything is written.
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrItemExists    = errors.New("item already exists")
	ErrValueNotFound = errors.New("value not found")
	ErrValueExists   = errors.New("value already exists")
	ErrInvalidValue  = errors.New("invalid value")
	ErrVaultExists   = errors.New("vault already exists")
)
