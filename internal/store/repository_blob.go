// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/logger"
)

var _ blob.Store = (*BlobRepository)(nil)

// BlobRepository is a [blob.Store] kept in the "blobs" table. Keys are
// validated like every other store; "directories" exist only as key
// prefixes.
type BlobRepository struct {
	*DB
	now    func() time.Time
	logger *logger.Logger
}

// NewBlobRepository constructs a [BlobRepository] on an open connection
// whose schema has been migrated.
func NewBlobRepository(db *DB, log *logger.Logger) *BlobRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &BlobRepository{DB: db, now: time.Now, logger: log}
}

// Read implements [blob.Store].
func (r *BlobRepository) Read(ctx context.Context, key string) ([]byte, error) {
	if err := blob.ValidateKey(key); err != nil {
		return nil, fmt.Errorf("%w: %w", blob.ErrRead, err)
	}

	query, args, err := buildReadBlobQuery(r.dialect, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", blob.ErrRead, ErrBuildingSQLQuery, err)
	}

	var data []byte
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %w: %s", blob.ErrRead, blob.ErrNotFound, key)
	case err != nil:
		r.logger.Err(err).
			Str("func", "BlobRepository.Read").
			Str("key", key).
			Msg("failed to read blob")
		return nil, fmt.Errorf("%w: %w: %w", blob.ErrRead, ErrScanningRow, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Write implements [blob.Store]. The upsert is a single statement, so
// readers see the old or the new content. Retryable driver errors are
// retried.
func (r *BlobRepository) Write(ctx context.Context, key string, data []byte) error {
	if err := blob.ValidateKey(key); err != nil {
		return fmt.Errorf("%w: %w", blob.ErrWrite, err)
	}

	if data == nil {
		data = []byte{}
	}
	query, args, err := buildUpsertBlobQuery(r.dialect, key, data, r.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w: %w", blob.ErrWrite, ErrBuildingSQLQuery, err)
	}

	err = withRetry(ctx, r.errorClassificator, func() error {
		_, execErr := r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		r.logger.Err(err).
			Str("func", "BlobRepository.Write").
			Str("key", key).
			Int("size", len(data)).
			Msg("failed to write blob")
		return fmt.Errorf("%w: %w: %w", blob.ErrWrite, ErrExecutingStatement, err)
	}
	return nil
}

// Remove implements [blob.Store]. Removing a prefix removes every key
// beneath it.
func (r *BlobRepository) Remove(ctx context.Context, key string) error {
	if err := blob.ValidateKey(key); err != nil {
		return fmt.Errorf("%w: %w", blob.ErrWrite, err)
	}

	query, args, err := buildRemoveBlobQuery(r.dialect, key)
	if err != nil {
		return fmt.Errorf("%w: %w: %w", blob.ErrWrite, ErrBuildingSQLQuery, err)
	}

	err = withRetry(ctx, r.errorClassificator, func() error {
		_, execErr := r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		r.logger.Err(err).
			Str("func", "BlobRepository.Remove").
			Str("key", key).
			Msg("failed to remove blob")
		return fmt.Errorf("%w: %w: %w", blob.ErrWrite, ErrExecutingStatement, err)
	}
	return nil
}

// List implements [blob.Store].
func (r *BlobRepository) List(ctx context.Context, prefix string) ([]string, error) {
	if err := blob.ValidatePrefix(prefix); err != nil {
		return nil, fmt.Errorf("%w: %w", blob.ErrRead, err)
	}
	prefix = strings.TrimSuffix(prefix, "/")

	like := prefix
	if like != "" {
		like += "/"
	}
	query, args, err := buildListBlobKeysQuery(r.dialect, like)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", blob.ErrRead, ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).
			Str("func", "BlobRepository.List").
			Str("prefix", prefix).
			Msg("failed to execute query for listing blobs")
		return nil, fmt.Errorf("%w: %w: %w", blob.ErrRead, ErrExecutingQuery, err)
	}
	defer rows.Close()

	keys := make([]string, 0, 64)
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: %w: %w", blob.ErrRead, ErrScanningRow, err)
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		r.logger.Err(err).
			Str("func", "BlobRepository.List").
			Str("prefix", prefix).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w: %w", blob.ErrRead, ErrScanningRows, err)
	}

	return blob.ChildrenOf(prefix, keys), nil
}
