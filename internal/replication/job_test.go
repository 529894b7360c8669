// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// spySyncer counts Sync calls and returns err.
type spySyncer struct {
	calls atomic.Int64
	err   error
}

func (s *spySyncer) Sync(context.Context) (Result, error) {
	s.calls.Add(1)
	return Result{}, s.err
}

// ── RunOnce ──

// TestJob_RunOnce_CallsOnSynced verifies that the callback follows a
// successful round.
func TestJob_RunOnce_CallsOnSynced(t *testing.T) {
	spy := &spySyncer{}
	var refreshed atomic.Int64
	job := NewJob(spy, func(context.Context) error { refreshed.Add(1); return nil }, nil)

	assert.NoError(t, job.RunOnce(context.Background()))
	assert.Equal(t, int64(1), spy.calls.Load())
	assert.Equal(t, int64(1), refreshed.Load())
}

// TestJob_RunOnce_SkipsOnSyncedOnError verifies that a failed sync does not
// trigger the callback.
func TestJob_RunOnce_SkipsOnSyncedOnError(t *testing.T) {
	spy := &spySyncer{err: assert.AnError}
	var refreshed atomic.Int64
	job := NewJob(spy, func(context.Context) error { refreshed.Add(1); return nil }, nil)

	assert.ErrorIs(t, job.RunOnce(context.Background()), assert.AnError)
	assert.Equal(t, int64(0), refreshed.Load())
}

// TestJob_RunOnce_PropagatesRefreshError verifies that a callback failure
// is reported.
func TestJob_RunOnce_PropagatesRefreshError(t *testing.T) {
	job := NewJob(&spySyncer{}, func(context.Context) error { return assert.AnError }, nil)
	assert.ErrorIs(t, job.RunOnce(context.Background()), assert.AnError)
}

// ── Start / Stop ──

// TestJob_Start_Ticks verifies that the loop syncs repeatedly.
func TestJob_Start_Ticks(t *testing.T) {
	spy := &spySyncer{}
	job := NewJob(spy, nil, nil)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(3))
}

// TestJob_Stop_HaltsLoop verifies that no round starts after Stop.
func TestJob_Stop_HaltsLoop(t *testing.T) {
	spy := &spySyncer{}
	job := NewJob(spy, nil, nil)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	after := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, spy.calls.Load())
}

// TestJob_Stop_Idempotent verifies that Stop is safe without Start and
// when called twice.
func TestJob_Stop_Idempotent(t *testing.T) {
	job := NewJob(&spySyncer{}, nil, nil)
	assert.NotPanics(t, job.Stop)

	job.Start(context.Background(), 10*time.Millisecond)
	job.Stop()
	assert.NotPanics(t, job.Stop)
}

// TestJob_Start_DefaultInterval verifies that a non-positive interval falls
// back to the default.
func TestJob_Start_DefaultInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		spy := &spySyncer{}
		job := NewJob(spy, nil, nil)

		job.Start(context.Background(), interval)
		time.Sleep(20 * time.Millisecond)
		job.Stop()

		assert.Equal(t, int64(0), spy.calls.Load(), "interval %v", interval)
	}
}

// TestJob_ErrorsDoNotStopLoop verifies that the loop keeps running through
// failing rounds.
func TestJob_ErrorsDoNotStopLoop(t *testing.T) {
	spy := &spySyncer{err: assert.AnError}
	job := NewJob(spy, nil, nil)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(3))
}

// TestJob_ContextCancel verifies that cancelling the parent context ends
// the loop and Stop returns promptly.
func TestJob_ContextCancel(t *testing.T) {
	job := NewJob(&spySyncer{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, 10*time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after cancel")
	}
}
