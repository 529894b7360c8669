// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the relay's HTTP server.
//
// It owns startup, signal handling and graceful shutdown: in-flight
// requests get [config.Server.ShutdownTimeout] to finish after SIGINT,
// SIGTERM or SIGQUIT.
package server
