// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Request errors.
var (
	// ErrInvalidDataProvided is returned for a malformed vault id or key.
	ErrInvalidDataProvided = errors.New("invalid data provided")
	// ErrInvalidEnvelope is returned when an entry envelope fails schema
	// validation.
	ErrInvalidEnvelope = errors.New("invalid envelope")
)

// Auth errors.
var (
	ErrWrongAccessKey          = errors.New("wrong access key")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)

// Blob errors.
var (
	// ErrWriteConflict is returned when a put would change an existing
	// write-log blob.
	ErrWriteConflict = errors.New("write-log blob is immutable")
	// ErrBlobNotFound is returned for a key the vault does not hold.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrStorage wraps a failure of the underlying blob store.
	ErrStorage = errors.New("storage error")
)

// ErrVersionIsNotSpecified is returned by [NewAppInfoService] without a
// build version.
var ErrVersionIsNotSpecified = errors.New("app version is not specified")
