// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command pastor-relay is the HTTP relay devices sync their vault write logs
// through. It stores only encrypted blobs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MKhiriev/go-pastor/internal/config"
	"github.com/MKhiriev/go-pastor/internal/handler"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/metrics"
	"github.com/MKhiriev/go-pastor/internal/schema"
	"github.com/MKhiriev/go-pastor/internal/server"
	"github.com/MKhiriev/go-pastor/internal/service"
	"github.com/MKhiriev/go-pastor/internal/store"
	"github.com/MKhiriev/go-pastor/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	info := buildInfo()
	for _, line := range info.Lines() {
		fmt.Println(line)
	}

	log := logger.NewLogger("pastor-relay")
	cfg, err := config.GetRelayConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	log.Debug().
		Str("storage", cfg.Storage.Backend).
		Str("address", cfg.Server.HTTPAddress).
		Str("issuer", cfg.Auth.TokenIssuer).
		Dur("token_duration", cfg.Auth.TokenDuration).
		Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	validator, err := schema.New()
	if err != nil {
		log.Fatal().Err(err).Msg("error compiling schemas")
	}

	services, err := service.NewServices(storages.Blobs, validator, cfg.Auth,
		info, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("error registering metrics")
	}

	handlers, err := handler.NewHandlers(services, m, registry, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
}

// buildInfo reports the linked version. An unversioned build still serves
// /api/version, as "N/A".
func buildInfo() models.AppBuildInfo {
	if buildVersion == "" {
		buildVersion = models.NotAvailable
	}
	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}
