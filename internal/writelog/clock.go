// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package writelog

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-pastor/models"
)

// Clock issues logical timestamps for one device.
//
// The wall component never decreases: it is the maximum of the local clock
// and every wall value observed so far, including entries replayed from
// other devices. An edit made after seeing another device's entry therefore
// orders after it even if the local clock lags.
type Clock struct {
	mu     sync.Mutex
	device string
	now    func() time.Time
	wall   int64
	seq    uint64
}

// NewClock returns a clock for device. A nil now uses time.Now.
func NewClock(device string, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{device: device, now: now}
}

// Device returns the device identifier stamped on issued timestamps.
func (c *Clock) Device() string {
	return c.device
}

// Next returns the timestamp the next entry would carry. It does not advance
// the clock; call Observe once the entry is durable.
func (c *Clock) Next() models.LogicalTimestamp {
	c.mu.Lock()
	defer c.mu.Unlock()

	return models.LogicalTimestamp{
		Wall:   max(c.now().UnixMilli(), c.wall),
		Device: c.device,
		Seq:    c.seq + 1,
	}
}

// Observe folds ts into the clock. Timestamps from this device also advance
// the sequence number.
func (c *Clock) Observe(ts models.LogicalTimestamp) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.wall = max(c.wall, ts.Wall)
	if ts.Device == c.device && ts.Seq > c.seq {
		c.seq = ts.Seq
	}
}
