// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by the role views when a required
// configuration group is incomplete or invalid.
var (
	// ErrInvalidVaultConfigs indicates invalid local vault settings (for
	// example, an unknown codec version).
	ErrInvalidVaultConfigs = errors.New("invalid vault configuration")
	// ErrInvalidSyncConfigs indicates an unknown sync backend or a backend
	// missing its address.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidStorageConfigs indicates an unknown relay storage backend or
	// a backend missing its DSN, directory or bucket.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates an unusable relay listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAuthConfigs indicates a missing token sign key or access key.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
)
