// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/config"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/schema"
	"github.com/MKhiriev/go-pastor/models"
)

// Services groups the relay services handed to the HTTP handler.
type Services struct {
	AuthService    AuthService
	BlobService    BlobService
	AppInfoService AppInfoService
}

// NewServices wires the relay services on top of store.
func NewServices(store blob.Store, validator *schema.Validator, cfg config.Auth, info models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(info, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:    NewAuthService(cfg, logger),
		BlobService:    NewBlobService(store, validator, logger),
		AppInfoService: appInfo,
	}, nil
}
