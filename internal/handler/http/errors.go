// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrForeignVault is returned when a token is used for a vault other than
	// the one it was issued for.
	ErrForeignVault = errors.New("token is not valid for this vault")

	// ErrBlobTooLarge is returned when an uploaded blob exceeds [MaxBlobSize].
	ErrBlobTooLarge = errors.New("blob is too large")
)
