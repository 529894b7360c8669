// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "github.com/google/uuid"

// MaxTraceIDLength bounds a caller-supplied trace id.
const MaxTraceIDLength = 64

// NewTraceID returns a time-ordered UUIDv7, or a random UUID if the clock
// source fails.
func NewTraceID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}

// ValidTraceID reports whether id is safe to echo in headers and logs:
// non-empty, at most [MaxTraceIDLength] bytes of printable ASCII.
func ValidTraceID(id string) bool {
	if id == "" || len(id) > MaxTraceIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
