// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/utils"
	"github.com/MKhiriev/go-pastor/models"
)

// createToken exchanges the shared access key for a vault-scoped token. The
// token is returned both in the body and in the Authorization header.
func (h *Handler) createToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.CreateToken(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "token was not issued")
		return
	}

	log.Debug().Str("vault_id", token.VaultID).Msg("token issued")

	w.Header().Set("Authorization", "Bearer "+token.SignedString)
	utils.WriteJSON(w, models.TokenResponse{Token: token.SignedString}, http.StatusOK)
}
