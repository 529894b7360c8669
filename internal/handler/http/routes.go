// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init builds the relay router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/token", h.createToken)
		r.Get("/api/version", h.getServerVersion)
		if h.gatherer != nil {
			r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
		}
	})

	// write-log routes, scoped to the token's vault
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/api/vaults/{vaultID}", func(r chi.Router) {
			r.Use(h.vaultAccess)
			r.Get("/writes", h.listKeys)
			r.Get("/writes/*", h.getBlob)
			r.Put("/writes/*", h.putBlob)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
