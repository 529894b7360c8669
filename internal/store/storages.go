// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/blob/s3"
	"github.com/MKhiriev/go-pastor/internal/config"
	"github.com/MKhiriev/go-pastor/internal/logger"
)

// Storages holds the relay's blob store and the resources behind it.
type Storages struct {
	Blobs blob.Store

	db *DB
}

// NewStorages opens the blob store selected by cfg.Backend. SQL backends
// are connected and migrated before use.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Str("backend", cfg.Backend).Msg("creating storages...")

	switch cfg.Backend {
	case config.StorageBackendSQLite, config.StorageBackendPostgres:
		db, err := NewConnect(ctx, cfg.Backend, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if err = db.Migrate(); err != nil {
			return nil, errors.Join(fmt.Errorf("migrate %s: %w", cfg.Backend, err), db.Close())
		}
		return &Storages{Blobs: NewBlobRepository(db, log), db: db}, nil

	case config.StorageBackendFS:
		fs, err := blob.NewFileStore(cfg.Files.Dir)
		if err != nil {
			return nil, err
		}
		return &Storages{Blobs: fs}, nil

	case config.StorageBackendS3:
		bucket, err := s3.New(ctx, S3Config(cfg.S3))
		if err != nil {
			return nil, err
		}
		return &Storages{Blobs: bucket}, nil

	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", ErrUnsupportedDialect, cfg.Backend)
	}
}

// Close releases the database connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// S3Config converts object storage settings to the bucket store's
// parameters.
func S3Config(c config.S3) s3.Config {
	return s3.Config{
		Region:          c.Region,
		Bucket:          c.Bucket,
		Endpoint:        c.Endpoint,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		PathStyle:       c.PathStyle,
		Prefix:          c.Prefix,
	}
}
