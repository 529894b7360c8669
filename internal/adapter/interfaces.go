// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the HTTP transport used to replicate a vault's
// write log through a pastor relay.
//
// [RelayClient] implements [replication.Remote]. It authenticates against the
// relay with the vault id and a shared access key, attaches the resulting
// bearer token to every request and maps HTTP status codes to the sentinel
// errors in errors.go so that callers can use [errors.Is] (e.g. [ErrConflict]
// for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"github.com/MKhiriev/go-pastor/internal/replication"
)

var _ replication.Remote = (*RelayClient)(nil)
