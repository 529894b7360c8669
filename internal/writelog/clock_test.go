// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package writelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-pastor/models"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestClock_NextDoesNotAdvance verifies that Next is side-effect free until
// the timestamp is observed.
func TestClock_NextDoesNotAdvance(t *testing.T) {
	c := NewClock("dev-a", fixedNow(time.UnixMilli(1000)))

	first := c.Next()
	assert.Equal(t, models.LogicalTimestamp{Wall: 1000, Device: "dev-a", Seq: 1}, first)
	assert.Equal(t, first, c.Next())

	c.Observe(first)
	assert.Equal(t, uint64(2), c.Next().Seq)
}

// TestClock_WallNeverDecreases verifies that a clock stepping backwards
// keeps issuing the highest wall seen.
func TestClock_WallNeverDecreases(t *testing.T) {
	now := time.UnixMilli(5000)
	c := NewClock("dev-a", func() time.Time { return now })

	c.Observe(c.Next())
	now = time.UnixMilli(3000)

	ts := c.Next()
	assert.Equal(t, int64(5000), ts.Wall)
	assert.Equal(t, uint64(2), ts.Seq)
}

// TestClock_ObserveForeign verifies that another device's timestamp raises
// the wall but leaves the local sequence alone.
func TestClock_ObserveForeign(t *testing.T) {
	c := NewClock("dev-a", fixedNow(time.UnixMilli(1000)))

	c.Observe(models.LogicalTimestamp{Wall: 9000, Device: "dev-b", Seq: 40})

	ts := c.Next()
	assert.Equal(t, int64(9000), ts.Wall)
	assert.Equal(t, uint64(1), ts.Seq)
	assert.True(t, ts.After(models.LogicalTimestamp{Wall: 9000, Device: "dev-0", Seq: 99}))
}

// TestClock_ObserveOwnRestoresSequence verifies that replaying this device's
// old entries resumes the sequence after them.
func TestClock_ObserveOwnRestoresSequence(t *testing.T) {
	c := NewClock("dev-a", fixedNow(time.UnixMilli(1000)))

	c.Observe(models.LogicalTimestamp{Wall: 10, Device: "dev-a", Seq: 7})
	c.Observe(models.LogicalTimestamp{Wall: 20, Device: "dev-a", Seq: 3})

	assert.Equal(t, uint64(8), c.Next().Seq)
}
