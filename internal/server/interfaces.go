// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server defines the lifecycle contract of the relay server.
type Server interface {
	// RunServer listens on the configured address and blocks until ctx is
	// cancelled or a stop signal arrives, then shuts down gracefully.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server within the configured timeout.
	Shutdown() error
}
