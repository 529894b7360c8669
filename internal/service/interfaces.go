// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the relay's business logic: token issuance, the
// per-vault write-log blob store and build information.
package service

import (
	"context"

	"github.com/MKhiriev/go-pastor/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService issues and verifies vault-scoped access tokens.
type AuthService interface {
	// CreateToken checks the shared access key and returns a token whose
	// subject is req.VaultID.
	CreateToken(ctx context.Context, req models.TokenRequest) (models.Token, error)
	// ParseToken verifies signature, issuer and expiry of a raw token.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// BlobService stores the write logs of many vaults. Keys are write-log keys
// ("writes/...") relative to the vault.
type BlobService interface {
	// ListKeys returns every write-log key of the vault in lexical order.
	ListKeys(ctx context.Context, vaultID string) ([]string, error)
	// Get returns the blob at key, or [ErrBlobNotFound].
	Get(ctx context.Context, vaultID, key string) ([]byte, error)
	// Put stores data at key. It reports created=false when identical bytes
	// are already stored and returns [ErrWriteConflict] when they differ.
	Put(ctx context.Context, vaultID, key string, data []byte) (created bool, err error)
}

// AppInfoService reports the relay's build information.
type AppInfoService interface {
	GetAppInfo(ctx context.Context) models.VersionResponse
}
