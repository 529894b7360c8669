// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-pastor/internal/service"
	"github.com/MKhiriev/go-pastor/models"
)

const testKey = "writes/2026/10/14/09-30-00-40e44982-4c6f-4a52-9a1c-3f1e5b7d7c01.json"

// ── listKeys ──

// TestListKeys_Success checks keys are returned as a KeyList.
func TestListKeys_Success(t *testing.T) {
	vaultID := uuid.NewString()
	ms := newMockedRelay(t, vaultID)
	ms.blobs.EXPECT().ListKeys(gomock.Any(), vaultID).Return([]string{testKey}, nil)

	rr := ms.do(http.MethodGet, "/api/vaults/"+vaultID+"/writes", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var list models.KeyList
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	assert.Equal(t, []string{testKey}, list.Keys)
}

// TestListKeys_StorageError checks a store failure is a 500 without the
// cause in the body.
func TestListKeys_StorageError(t *testing.T) {
	vaultID := uuid.NewString()
	ms := newMockedRelay(t, vaultID)
	ms.blobs.EXPECT().ListKeys(gomock.Any(), vaultID).Return(nil, fmt.Errorf("%w: secret detail", service.ErrStorage))

	rr := ms.do(http.MethodGet, "/api/vaults/"+vaultID+"/writes", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret detail")
}

// TestVaultAccess_ForeignVault checks a token cannot reach another vault.
func TestVaultAccess_ForeignVault(t *testing.T) {
	ms := newMockedRelay(t, uuid.NewString())
	other := uuid.NewString()

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/api/vaults/" + other + "/writes"},
		{http.MethodGet, "/api/vaults/" + other + "/" + testKey},
		{http.MethodPut, "/api/vaults/" + other + "/" + testKey},
	} {
		rr := ms.do(tt.method, tt.path, "{}")
		assert.Equal(t, http.StatusForbidden, rr.Code, tt.path)
	}
}

// ── getBlob ──

// TestGetBlob checks the wildcard becomes the write-log key and errors map
// to statuses.
func TestGetBlob(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		err  error
		want int
	}{
		{"found", []byte{0x01, 0x02}, nil, http.StatusOK},
		{"missing", nil, service.ErrBlobNotFound, http.StatusNotFound},
		{"bad key", nil, service.ErrInvalidDataProvided, http.StatusBadRequest},
		{"storage", nil, service.ErrStorage, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vaultID := uuid.NewString()
			ms := newMockedRelay(t, vaultID)
			ms.blobs.EXPECT().Get(gomock.Any(), vaultID, testKey).Return(tt.data, tt.err)

			rr := ms.do(http.MethodGet, "/api/vaults/"+vaultID+"/"+testKey, "")
			assert.Equal(t, tt.want, rr.Code)
			if tt.err == nil {
				assert.Equal(t, tt.data, rr.Body.Bytes())
				assert.Equal(t, "application/octet-stream", rr.Header().Get("Content-Type"))
			}
		})
	}
}

// ── putBlob ──

// TestPutBlob covers the statuses of an immutable upload.
func TestPutBlob(t *testing.T) {
	tests := []struct {
		name    string
		created bool
		err     error
		want    int
	}{
		{"created", true, nil, http.StatusCreated},
		{"identical", false, nil, http.StatusNoContent},
		{"conflict", false, service.ErrWriteConflict, http.StatusConflict},
		{"invalid envelope", false, service.ErrInvalidEnvelope, http.StatusBadRequest},
		{"storage", false, service.ErrStorage, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vaultID := uuid.NewString()
			ms := newMockedRelay(t, vaultID)
			ms.blobs.EXPECT().Put(gomock.Any(), vaultID, testKey, []byte("payload")).Return(tt.created, tt.err)

			rr := ms.do(http.MethodPut, "/api/vaults/"+vaultID+"/"+testKey, "payload")
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

// TestPutBlob_TooLarge checks oversized uploads are refused before the
// service is called.
func TestPutBlob_TooLarge(t *testing.T) {
	vaultID := uuid.NewString()
	ms := newMockedRelay(t, vaultID)

	rr := ms.do(http.MethodPut, "/api/vaults/"+vaultID+"/"+testKey, strings.Repeat("x", MaxBlobSize+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}
