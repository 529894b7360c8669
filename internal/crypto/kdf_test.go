// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// light parameters keep the tests fast
var testParams = KDFParams{Time: 1, Memory: 8 * 1024, Threads: 1}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	kdf := NewKDF(testParams)
	salt := bytes.Repeat([]byte{0xAB}, 16)

	k1 := kdf.DeriveKey("correct horse battery staple", salt)
	k2 := kdf.DeriveKey("correct horse battery staple", salt)

	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)
}

func TestDeriveKey_DiffersByPasswordAndSalt(t *testing.T) {
	kdf := NewKDF(testParams)
	salt := bytes.Repeat([]byte{0x01}, 16)

	base := kdf.DeriveKey("password", salt)
	assert.NotEqual(t, base, kdf.DeriveKey("Password", salt))
	assert.NotEqual(t, base, kdf.DeriveKey("password", bytes.Repeat([]byte{0x02}, 16)))
}

func TestNewKDF_ZeroParamsUseDefaults(t *testing.T) {
	kdf := NewKDF(KDFParams{}).(*argonKDF)
	assert.Equal(t, DefaultKDFParams, kdf.params)
}
