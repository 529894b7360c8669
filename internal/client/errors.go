// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "errors"

var (
	// ErrNoVault is returned when the vault directory holds no vault.
	ErrNoVault = errors.New("no vault in directory")
	// ErrWrongPassword is returned when the vault cannot be unlocked.
	ErrWrongPassword = errors.New("wrong password")
	// ErrPasswordMismatch is returned when a new password is not confirmed.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrEmptyPassword is returned for an empty new password.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrAmbiguousItem is returned when an item name matches several items.
	ErrAmbiguousItem = errors.New("item name is ambiguous, use the id")
	// ErrSyncDisabled is returned by sync without a configured backend.
	ErrSyncDisabled = errors.New("sync backend is not configured")
	// ErrInvalidArgument is returned for malformed command arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)
