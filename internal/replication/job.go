// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-pastor/internal/logger"
)

// DefaultInterval is used when Start is given a non-positive interval.
const DefaultInterval = 5 * time.Minute

// Syncer runs one sync round. [Replicator] implements it.
type Syncer interface {
	Sync(ctx context.Context) (Result, error)
}

// Job runs a [Syncer] on a ticker. After every successful round it calls
// OnSynced, typically the vault's Refresh, so pulled entries are applied.
type Job struct {
	syncer   Syncer
	onSynced func(ctx context.Context) error
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJob returns an idle Job. onSynced may be nil.
func NewJob(syncer Syncer, onSynced func(ctx context.Context) error, l *logger.Logger) *Job {
	if l == nil {
		l = logger.Nop()
	}
	return &Job{syncer: syncer, onSynced: onSynced, logger: l}
}

// Start stops any running loop and launches a new one that syncs every
// interval until ctx is cancelled or Stop is called.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_ = j.RunOnce(jobCtx)
			}
		}
	}()
}

// RunOnce performs one sync round followed by OnSynced.
func (j *Job) RunOnce(ctx context.Context) error {
	res, err := j.syncer.Sync(ctx)
	if err != nil {
		j.logger.Err(err).Str("func", "Job.RunOnce").
			Int("pushed", res.Pushed).Int("pulled", res.Pulled).Msg("sync failed")
		return err
	}
	if j.onSynced == nil {
		return nil
	}
	if err = j.onSynced(ctx); err != nil {
		j.logger.Err(err).Str("func", "Job.RunOnce").Msg("post-sync refresh failed")
		return err
	}
	return nil
}

// Stop cancels the loop and waits for it to exit. It is a no-op when the
// job is not running.
func (j *Job) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
