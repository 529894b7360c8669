// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/metrics"
	"github.com/MKhiriev/go-pastor/internal/service"
)

// Handler owns the relay routes.
type Handler struct {
	services *service.Services
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	logger *logger.Logger
}

// NewHandler returns a Handler. gatherer backs /metrics; a nil gatherer
// leaves the endpoint unregistered.
func NewHandler(services *service.Services, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *logger.Logger) *Handler {
	if m == nil {
		m = metrics.Nop()
	}
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		metrics:  m,
		gatherer: gatherer,
		logger:   logger,
	}
}
