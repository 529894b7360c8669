// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the pastor CLI and the relay.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables (prefixed with PASTOR_)
//  2. Command-line flags
//  3. JSON config file
//
// The entry points are [GetVaultConfig] for the CLI and [GetRelayConfig] for
// the relay. Each returns a validated role view with defaults applied.
package config
