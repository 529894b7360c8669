// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"cmp"
	"fmt"
	"time"
)

// LogicalTimestamp is the sort key of a write-log entry. It establishes a
// total order across all replicas: entries compare by wall clock first, then
// by originating device, then by the per-device sequence number. The pair
// (Device, Seq) is unique, so no two entries ever compare equal.
//
// A LogicalTimestamp also serves as a log position: "since" queries yield
// entries strictly after it.
type LogicalTimestamp struct {
	// Wall is the originating device's wall clock in Unix milliseconds,
	// clamped so it never decreases on that device.
	Wall int64 `json:"wall"`

	// Device is the identifier (UUID) of the device that wrote the entry.
	Device string `json:"device"`

	// Seq is the per-device monotonic sequence number, starting at 1.
	Seq uint64 `json:"seq"`
}

// Compare returns -1, 0 or +1 depending on whether t orders before, equal to,
// or after other.
func (t LogicalTimestamp) Compare(other LogicalTimestamp) int {
	if c := cmp.Compare(t.Wall, other.Wall); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Device, other.Device); c != 0 {
		return c
	}
	return cmp.Compare(t.Seq, other.Seq)
}

// After reports whether t orders strictly after other.
func (t LogicalTimestamp) After(other LogicalTimestamp) bool {
	return t.Compare(other) > 0
}

// IsZero reports whether t is the zero timestamp, which orders before every
// real entry.
func (t LogicalTimestamp) IsZero() bool {
	return t == LogicalTimestamp{}
}

// Time returns the wall component as a UTC time.
func (t LogicalTimestamp) Time() time.Time {
	return time.UnixMilli(t.Wall).UTC()
}

// String implements fmt.Stringer.
func (t LogicalTimestamp) String() string {
	return fmt.Sprintf("%d/%s/%d", t.Wall, t.Device, t.Seq)
}
