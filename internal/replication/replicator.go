// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/metrics"
	"github.com/MKhiriev/go-pastor/internal/writelog"
)

// Result reports how many blobs one sync round moved in each direction.
type Result struct {
	Pushed int
	Pulled int
}

// Replicator reconciles the write log of a local store with a remote. Since
// entries are immutable and uniquely named, reconciliation is a set union:
// each side receives the keys it lacks.
type Replicator struct {
	local   blob.Store
	remote  Remote
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// Option configures a [Replicator].
type Option func(*Replicator)

// WithMetrics counts transferred blobs on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Replicator) { r.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Replicator) { r.logger = l }
}

// New returns a Replicator between local and remote.
func New(local blob.Store, remote Remote, opts ...Option) *Replicator {
	r := &Replicator{
		local:   local,
		remote:  remote,
		metrics: metrics.Nop(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sync pushes local write-log keys the remote lacks, then pulls remote keys
// the local store lacks. Within each direction attachment blobs move before
// entry envelopes, so an entry never becomes visible before the content it
// references. Delivery is at-least-once: after a failure the partial result
// is returned and the next round resumes where this one stopped.
func (r *Replicator) Sync(ctx context.Context) (Result, error) {
	var res Result

	localKeys, err := blob.Walk(ctx, r.local, writelog.Dir)
	if err != nil {
		return res, fmt.Errorf("list local writes: %w", err)
	}
	remoteKeys, err := r.remote.ListKeys(ctx)
	if err != nil {
		return res, fmt.Errorf("list remote writes: %w", err)
	}

	toPush := transferOrder(missing(localKeys, remoteKeys))
	toPull := transferOrder(r.acceptable(missing(remoteKeys, localKeys)))

	for _, key := range toPush {
		if err = r.push(ctx, key); err != nil {
			return res, err
		}
		res.Pushed++
		r.metrics.BlobsPushed.Inc()
	}
	for _, key := range toPull {
		if err = r.pull(ctx, key); err != nil {
			return res, err
		}
		res.Pulled++
		r.metrics.BlobsPulled.Inc()
	}

	r.logger.Debug().Str("func", "Replicator.Sync").
		Int("pushed", res.Pushed).Int("pulled", res.Pulled).Msg("sync round finished")
	return res, nil
}

func (r *Replicator) push(ctx context.Context, key string) error {
	data, err := r.local.Read(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPush, key, err)
	}
	if err = r.remote.Put(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPush, key, err)
	}
	return nil
}

func (r *Replicator) pull(ctx context.Context, key string) error {
	data, err := r.remote.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPull, key, err)
	}
	if err = r.local.Write(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPull, key, err)
	}
	return nil
}

// acceptable drops remote keys that are not write-log entries or
// attachments. A remote cannot plant arbitrary files in the vault.
func (r *Replicator) acceptable(keys []string) []string {
	out := keys[:0]
	for _, key := range keys {
		if blob.ValidateKey(key) == nil && isWriteKey(key) {
			out = append(out, key)
			continue
		}
		r.logger.Warn().Str("func", "Replicator.Sync").Str("key", key).Msg("ignoring unexpected remote key")
	}
	return out
}

func isWriteKey(key string) bool {
	if writelog.IsEntryKey(key) {
		return true
	}
	_, ok := writelog.OwnerOf(key)
	return ok
}

// missing returns the keys of have that other lacks, sorted.
func missing(have, other []string) []string {
	known := make(map[string]struct{}, len(other))
	for _, k := range other {
		known[k] = struct{}{}
	}
	var out []string
	for _, k := range have {
		if _, ok := known[k]; !ok {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// transferOrder puts attachment blobs first, keeping both groups sorted.
func transferOrder(keys []string) []string {
	slices.SortStableFunc(keys, func(a, b string) int {
		_, aAtt := writelog.OwnerOf(a)
		_, bAtt := writelog.OwnerOf(b)
		switch {
		case aAtt == bAtt:
			return 0
		case aAtt:
			return -1
		default:
			return 1
		}
	})
	return keys
}
