// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package writelog

import "errors"

var (
	// ErrDecode is returned for an entry that decrypts but is not a valid
	// mutation, or whose key, envelope id and timestamp disagree.
	ErrDecode = errors.New("decode error")

	// ErrInvalidMutation is returned by Append for a mutation that cannot be
	// written, such as attachment data without an attachment value.
	ErrInvalidMutation = errors.New("invalid mutation")
)
