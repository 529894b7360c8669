// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, validates it
// via [service.AuthService.ParseToken] and stores the token's vault id in the
// request context under [utils.VaultIDCtxKey].
//
// Requests without a header, with a malformed header or with an invalid or
// expired token are rejected with 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithVaultID(ctx, token.VaultID)))
	})
}

// vaultAccess rejects requests whose {vaultID} path parameter differs from
// the vault the token was issued for. It must run after [Handler.auth].
func (h *Handler) vaultAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenVault, ok := utils.GetVaultIDFromContext(r.Context())
		pathVault := chi.URLParam(r, "vaultID")
		if !ok || tokenVault != pathVault {
			logger.FromRequest(r).Warn().
				Str("token_vault_id", tokenVault).
				Str("path_vault_id", pathVault).
				Msg(ErrForeignVault.Error())
			http.Error(w, ErrForeignVault.Error(), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
