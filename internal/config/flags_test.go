// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 8080},
			expected: "localhost:8080",
		},
		{
			name:     "IP address with port",
			addr:     NetAddress{Host: "127.0.0.1", Port: 9090},
			expected: "127.0.0.1:9090",
		},
		{
			name:     "only port no host",
			addr:     NetAddress{Host: "", Port: 8080},
			expected: ":8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

// TestNetAddress_Set tests the Set method of NetAddress
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedAddr NetAddress
	}{
		{
			name:         "valid localhost",
			input:        "localhost:8080",
			expectedAddr: NetAddress{Host: "localhost", Port: 8080},
		},
		{
			name:         "valid IPv4",
			input:        "127.0.0.1:9090",
			expectedAddr: NetAddress{Host: "127.0.0.1", Port: 9090},
		},
		{
			name:         "empty host",
			input:        ":8080",
			expectedAddr: NetAddress{Port: 8080},
		},
		{
			name:        "missing colon",
			input:       "localhost8080",
			expectError: true,
		},
		{
			name:        "port out of range",
			input:       "localhost:70000",
			expectError: true,
		},
		{
			name:        "non numeric port",
			input:       "localhost:http",
			expectError: true,
		},
		{
			name:        "bad ip",
			input:       "300.1.1.1:80",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAddr, addr)
		})
	}
}

// TestParseRelayFlags_AllFlags verifies that every relay flag lands in its
// config field.
func TestParseRelayFlags_AllFlags(t *testing.T) {
	cfg, err := ParseRelayFlags([]string{
		"-a", "127.0.0.1:8181",
		"-storage", "fs",
		"-d", "relay.db",
		"-f", "/srv/blobs",
		"-config", "/etc/pastor.json",
		"-token-sign-key", "sign",
		"-token-issuer", "iss",
		"-token-duration", "30m",
		"-access-key", "shared",
		"-request-timeout", "10s",
		"-log-level", "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8181", cfg.Server.HTTPAddress)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, StorageBackendFS, cfg.Storage.Backend)
	assert.Equal(t, "relay.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/srv/blobs", cfg.Storage.Files.Dir)
	assert.Equal(t, "/etc/pastor.json", cfg.JSONFilePath)
	assert.Equal(t, "sign", cfg.Auth.TokenSignKey)
	assert.Equal(t, "iss", cfg.Auth.TokenIssuer)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenDuration)
	assert.Equal(t, "shared", cfg.Auth.AccessKey)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// TestParseRelayFlags_NoFlags verifies that no flags yield a zero config.
func TestParseRelayFlags_NoFlags(t *testing.T) {
	cfg, err := ParseRelayFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

// TestParseRelayFlags_BadAddress verifies that an invalid -a is rejected.
func TestParseRelayFlags_BadAddress(t *testing.T) {
	_, err := ParseRelayFlags([]string{"-a", "nowhere"})
	assert.Error(t, err)
}
