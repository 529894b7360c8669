// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/config"
	"github.com/MKhiriev/go-pastor/internal/logger"
)

// TestNewStorages_SQLite checks the sqlite backend is migrated and usable.
func TestNewStorages_SQLite(t *testing.T) {
	ctx := context.Background()
	s, err := NewStorages(ctx, config.Storage{
		Backend: config.StorageBackendSQLite,
		DB:      config.DB{DSN: filepath.Join(t.TempDir(), "relay.db")},
	}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.IsType(t, &BlobRepository{}, s.Blobs)
	require.NoError(t, s.Blobs.Write(ctx, "vaults/v/writes/a", []byte("x")))
	got, err := s.Blobs.Read(ctx, "vaults/v/writes/a")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

// TestNewStorages_FS checks the fs backend writes under the configured
// directory.
func TestNewStorages_FS(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorages(context.Background(), config.Storage{
		Backend: config.StorageBackendFS,
		Files:   config.Files{Dir: dir},
	}, logger.Nop())
	require.NoError(t, err)

	fs, ok := s.Blobs.(*blob.FileStore)
	require.True(t, ok)
	assert.Equal(t, dir, fs.Root())
	assert.NoError(t, s.Close())
}

// TestNewStorages_Errors covers unusable configurations.
func TestNewStorages_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewStorages(ctx, config.Storage{Backend: "tape"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnsupportedDialect)

	_, err = NewStorages(ctx, config.Storage{Backend: config.StorageBackendS3}, logger.Nop())
	assert.Error(t, err)
}

// TestS3Config checks every field is carried over.
func TestS3Config(t *testing.T) {
	got := S3Config(config.S3{
		Region:          "eu-west-1",
		Bucket:          "vaults",
		Endpoint:        "http://minio:9000",
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
		Prefix:          "relay",
		PathStyle:       true,
	})

	assert.Equal(t, "eu-west-1", got.Region)
	assert.Equal(t, "vaults", got.Bucket)
	assert.Equal(t, "http://minio:9000", got.Endpoint)
	assert.Equal(t, "id", got.AccessKeyID)
	assert.Equal(t, "secret", got.SecretAccessKey)
	assert.Equal(t, "relay", got.Prefix)
	assert.True(t, got.PathStyle)
}
