// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/service"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidEnvelope:         http.StatusBadRequest,
	service.ErrWrongAccessKey:          http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrBlobNotFound:            http.StatusNotFound,
	service.ErrWriteConflict:           http.StatusConflict,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,
	service.ErrStorage:                 http.StatusInternalServerError,

	ErrForeignVault: http.StatusForbidden,
	ErrBlobTooLarge: http.StatusRequestEntityTooLarge,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with the mapped status. Server-side
// failures hide their cause from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFromError(err)
	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Msg(msg)
		http.Error(w, http.StatusText(status), status)
		return
	}
	log.Warn().Err(err).Msg(msg)
	http.Error(w, err.Error(), status)
}
