// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"golang.org/x/crypto/argon2"
)

// KDFParams are the Argon2id tuning parameters.
type KDFParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultKDFParams are the parameters recommended by OWASP (2024):
// 1 iteration, 64 MiB, 4 lanes.
var DefaultKDFParams = KDFParams{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
}

// argonKDF is the Argon2id implementation of [KDF].
type argonKDF struct {
	params KDFParams
}

// NewKDF returns an Argon2id [KDF]. Zero fields of params fall back to
// [DefaultKDFParams].
func NewKDF(params KDFParams) KDF {
	if params.Time == 0 {
		params.Time = DefaultKDFParams.Time
	}
	if params.Memory == 0 {
		params.Memory = DefaultKDFParams.Memory
	}
	if params.Threads == 0 {
		params.Threads = DefaultKDFParams.Threads
	}
	return &argonKDF{params: params}
}

// DeriveKey implements [KDF]. The derived key exists only in memory.
func (k *argonKDF) DeriveKey(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		k.params.Time,
		k.params.Memory,
		k.params.Threads,
		KeySize,
	)
}
