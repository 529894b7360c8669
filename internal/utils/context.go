// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities used by the relay
// and its client: type-safe context keys, JSON response writing, HTTP client
// initialization, JWT token generation and validation, and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// VaultIDCtxKey is the key under which the relay's auth middleware stores the
// vault id a request's token was issued for.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.VaultIDCtxKey, vaultID)
var VaultIDCtxKey = contextKey("vaultID")

// WithVaultID returns a copy of ctx carrying vaultID.
func WithVaultID(ctx context.Context, vaultID string) context.Context {
	return context.WithValue(ctx, VaultIDCtxKey, vaultID)
}

// GetVaultIDFromContext retrieves the authenticated vault id from the context.
//
// Returns the vault id and an ok flag:
//   - ok == true  — value is found, is a string and is not empty
//   - ok == false — value is missing, empty or has an unexpected type
func GetVaultIDFromContext(ctx context.Context) (string, bool) {
	vaultID, ok := ctx.Value(VaultIDCtxKey).(string)
	return vaultID, ok && vaultID != ""
}
