// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package handler assembles the relay's transport handlers.
package handler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-pastor/internal/config"
	"github.com/MKhiriev/go-pastor/internal/handler/http"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/metrics"
	"github.com/MKhiriev/go-pastor/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, m *metrics.Metrics, gatherer prometheus.Gatherer, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, m, gatherer, logger),
	}, nil
}
