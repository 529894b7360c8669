// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"

	"github.com/MKhiriev/go-pastor/internal/replication"
)

// HTTP status sentinels returned by [RelayClient].
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrPayloadTooLarge     = errors.New("blob too large for the relay")
	ErrBadGateway          = errors.New("bad gateway")
	ErrUnavailable         = errors.New("relay unavailable")
	ErrInternalServerError = errors.New("internal server error")
)

// ErrConflict is returned when the relay already stores different bytes
// under a key. It is the replication sentinel so that [replication.Replicator]
// treats relay and store remotes alike.
var ErrConflict = replication.ErrConflict

// ErrInvalidAddress is returned by [NewRelayClient] for an unusable relay
// address.
var ErrInvalidAddress = errors.New("invalid relay address")
