// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// TokenRequest is the body of POST /api/token. A device proves it may use the
// relay for VaultID by presenting the relay's shared access key.
type TokenRequest struct {
	VaultID   string `json:"vault_id"`
	AccessKey string `json:"access_key"`
}

// TokenResponse is returned by POST /api/token. The same token is also set in
// the Authorization response header.
type TokenResponse struct {
	Token string `json:"token"`
}

// KeyList is the body of GET /api/vaults/{vaultID}/writes.
type KeyList struct {
	Keys []string `json:"keys"`
}

// VersionResponse is the body of GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}
