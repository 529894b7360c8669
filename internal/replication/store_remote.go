// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/writelog"
)

// StoreRemote serves a blob store as a [Remote]. Pointed at a shared
// directory or a bucket it lets devices sync without a relay.
type StoreRemote struct {
	store blob.Store
}

// NewStoreRemote returns a Remote backed by store.
func NewStoreRemote(store blob.Store) *StoreRemote {
	return &StoreRemote{store: store}
}

// ListKeys implements [Remote].
func (s *StoreRemote) ListKeys(ctx context.Context) ([]string, error) {
	return blob.Walk(ctx, s.store, writelog.Dir)
}

// Get implements [Remote].
func (s *StoreRemote) Get(ctx context.Context, key string) ([]byte, error) {
	return s.store.Read(ctx, key)
}

// Put implements [Remote].
func (s *StoreRemote) Put(ctx context.Context, key string, data []byte) error {
	existing, err := s.store.Read(ctx, key)
	switch {
	case err == nil:
		if bytes.Equal(existing, data) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrConflict, key)
	case !errors.Is(err, blob.ErrNotFound):
		return err
	}
	return s.store.Write(ctx, key, data)
}
