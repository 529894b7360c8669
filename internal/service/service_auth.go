// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-pastor/internal/config"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/utils"
	"github.com/MKhiriev/go-pastor/models"
)

// authService is the concrete implementation of AuthService.
// Devices prove they may use the relay by presenting the shared access key;
// the issued JWT is scoped to one vault id.
type authService struct {
	// accessKey is the shared secret devices exchange for a token.
	accessKey string

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService populated with security
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(cfg config.Auth, logger *logger.Logger) AuthService {
	return &authService{
		accessKey:     cfg.AccessKey,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// CreateToken issues a signed JWT for req.VaultID.
//
// Returns:
//   - ErrInvalidDataProvided if the vault id is not a UUID.
//   - ErrWrongAccessKey if the access key does not match.
//   - ErrTokenCreationFailed (wrapped) if JWT generation fails.
func (a *authService) CreateToken(ctx context.Context, req models.TokenRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if _, err := uuid.Parse(req.VaultID); err != nil {
		log.Error().Str("func", "authService.CreateToken").Str("vault_id", req.VaultID).Msg("invalid vault id provided")
		return models.Token{}, fmt.Errorf("%w: vault id: %w", ErrInvalidDataProvided, err)
	}

	if subtle.ConstantTimeCompare([]byte(req.AccessKey), []byte(a.accessKey)) != 1 {
		log.Warn().Str("func", "authService.CreateToken").Str("vault_id", req.VaultID).Msg("wrong access key")
		return models.Token{}, ErrWrongAccessKey
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, req.VaultID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "authService.ParseToken").Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
