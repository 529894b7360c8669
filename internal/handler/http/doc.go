// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the relay's HTTP transport.
//
// Devices exchange the shared access key for a vault-scoped JWT at
// /api/token and then list, download and upload write-log blobs under
// /api/vaults/{vaultID}/writes. Tracing, access logging, request metrics and
// bearer authentication are handled here before requests reach the service
// layer.
package http
