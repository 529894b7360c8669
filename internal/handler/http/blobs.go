// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-pastor/internal/utils"
	"github.com/MKhiriev/go-pastor/internal/writelog"
	"github.com/MKhiriev/go-pastor/models"
)

// MaxBlobSize bounds a single uploaded blob.
const MaxBlobSize = 64 << 20

func (h *Handler) listKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.services.BlobService.ListKeys(r.Context(), chi.URLParam(r, "vaultID"))
	if err != nil {
		writeError(w, r, err, "listing keys failed")
		return
	}

	utils.WriteJSON(w, models.KeyList{Keys: keys}, http.StatusOK)
}

func (h *Handler) getBlob(w http.ResponseWriter, r *http.Request) {
	data, err := h.services.BlobService.Get(r.Context(), chi.URLParam(r, "vaultID"), blobKey(r))
	if err != nil {
		writeError(w, r, err, "reading blob failed")
		return
	}

	utils.WriteBlob(w, data)
}

// putBlob stores an immutable blob: 201 when created, 204 when the same
// bytes were already there.
func (h *Handler) putBlob(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBlobSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: limit is %d bytes", ErrBlobTooLarge, tooLarge.Limit)
		}
		writeError(w, r, err, "reading request body failed")
		return
	}

	created, err := h.services.BlobService.Put(r.Context(), chi.URLParam(r, "vaultID"), blobKey(r), data)
	if err != nil {
		writeError(w, r, err, "storing blob failed")
		return
	}

	if created {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// blobKey rebuilds the write-log key from the wildcard path segment.
func blobKey(r *http.Request) string {
	return writelog.Dir + "/" + chi.URLParam(r, "*")
}
