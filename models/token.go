// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a relay access token.
//
// It embeds [jwt.RegisteredClaims] so it can be passed directly to
// [jwt.ParseWithClaims]. The subject claim is the vault id the token grants
// access to.
type Token struct {
	// Token is the parsed JWT. Excluded from JSON serialization because only
	// the compact string form is meaningful outside the relay process.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form (header.payload.signature).
	SignedString string `json:"-"`

	// VaultID is a cached copy of the subject claim.
	VaultID string `json:"-"`
}

// GetVaultID returns the vault id carried in the subject claim.
func (t *Token) GetVaultID() (string, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting vault id from token: %w", err)
	}
	if sub == "" {
		return "", fmt.Errorf("error extracting vault id from token: empty subject")
	}
	return sub, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
