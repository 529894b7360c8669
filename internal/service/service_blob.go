// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/schema"
	"github.com/MKhiriev/go-pastor/internal/writelog"
)

// vaultsDir is the root under which every vault's write log is stored.
const vaultsDir = "vaults"

// blobService keeps each vault's write log under vaults/<id>/ in one shared
// store. The relay never sees plaintext: it checks the shape of entry
// envelopes and stores attachment blobs as opaque bytes.
type blobService struct {
	store     blob.Store
	validator *schema.Validator

	// mu serialises puts so the immutability check and the write are atomic.
	mu sync.Mutex

	logger *logger.Logger
}

// NewBlobService returns a BlobService backed by store. A nil validator
// falls back to [schema.Default].
func NewBlobService(store blob.Store, validator *schema.Validator, logger *logger.Logger) BlobService {
	if validator == nil {
		validator = schema.Default()
	}
	return &blobService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

func (s *blobService) ListKeys(ctx context.Context, vaultID string) ([]string, error) {
	root, err := vaultRoot(vaultID)
	if err != nil {
		return nil, err
	}

	keys, err := blob.Walk(ctx, s.store, blob.Join(root, writelog.Dir))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	for i, key := range keys {
		keys[i] = strings.TrimPrefix(key, root+"/")
	}
	return keys, nil
}

func (s *blobService) Get(ctx context.Context, vaultID, key string) ([]byte, error) {
	full, err := storeKey(vaultID, key)
	if err != nil {
		return nil, err
	}

	data, err := s.store.Read(ctx, full)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return data, nil
}

func (s *blobService) Put(ctx context.Context, vaultID, key string, data []byte) (bool, error) {
	log := logger.FromContext(ctx)

	full, err := storeKey(vaultID, key)
	if err != nil {
		return false, err
	}

	if writelog.IsEntryKey(key) {
		if err = s.validator.ValidateEnvelope(data); err != nil {
			log.Warn().Err(err).Str("func", "blobService.Put").Str("key", key).Msg("rejected envelope")
			return false, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.Read(ctx, full)
	switch {
	case err == nil:
		if bytes.Equal(existing, data) {
			return false, nil
		}
		log.Warn().Str("func", "blobService.Put").Str("vault_id", vaultID).Str("key", key).Msg("attempt to overwrite write-log blob")
		return false, fmt.Errorf("%w: %s", ErrWriteConflict, key)
	case !errors.Is(err, blob.ErrNotFound):
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if err = s.store.Write(ctx, full, data); err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	log.Debug().Str("vault_id", vaultID).Str("key", key).Int("size", len(data)).Msg("blob stored")
	return true, nil
}

func vaultRoot(vaultID string) (string, error) {
	id, err := uuid.Parse(vaultID)
	if err != nil {
		return "", fmt.Errorf("%w: vault id: %w", ErrInvalidDataProvided, err)
	}
	return blob.Join(vaultsDir, id.String()), nil
}

// storeKey maps a vault-relative write-log key to its key in the shared
// store. Only entry and attachment keys are accepted.
func storeKey(vaultID, key string) (string, error) {
	root, err := vaultRoot(vaultID)
	if err != nil {
		return "", err
	}
	if err = blob.ValidateKey(key); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if _, ok := writelog.OwnerOf(key); !ok && !writelog.IsEntryKey(key) {
		return "", fmt.Errorf("%w: not a write-log key: %q", ErrInvalidDataProvided, key)
	}
	return blob.Join(root, key), nil
}
