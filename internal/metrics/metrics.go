// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the Prometheus collectors shared by the write log,
// the replicator and the relay.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pastor"

// Metrics groups every collector. The zero value is not usable; build it
// with [New] or [Nop].
type Metrics struct {
	EntriesAppended    prometheus.Counter
	EntriesQuarantined prometheus.Counter
	ReplayDuration     prometheus.Histogram
	BlobsPushed        prometheus.Counter
	BlobsPulled        prometheus.Counter
	RelayRequests      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. Collectors already
// registered by an earlier call are reused, so several components may share
// one registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		EntriesAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_entries_appended_total",
			Help:      "Write-log entries appended on this device.",
		}),
		EntriesQuarantined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_entries_quarantined_total",
			Help:      "Write-log entries skipped because they failed to decrypt or decode.",
		}),
		ReplayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "replay_duration_seconds",
			Help:      "Time spent replaying the write log into the item set.",
			Buckets:   prometheus.DefBuckets,
		}),
		BlobsPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_blobs_pushed_total",
			Help:      "Blobs uploaded to the sync remote.",
		}),
		BlobsPulled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_blobs_pulled_total",
			Help:      "Blobs downloaded from the sync remote.",
		}),
		RelayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_requests_total",
			Help:      "Relay HTTP requests by method and status code.",
		}, []string{"method", "status"}),
	}

	var err error
	m.EntriesAppended, err = register(reg, m.EntriesAppended)
	if err != nil {
		return nil, err
	}
	m.EntriesQuarantined, err = register(reg, m.EntriesQuarantined)
	if err != nil {
		return nil, err
	}
	m.ReplayDuration, err = register(reg, m.ReplayDuration)
	if err != nil {
		return nil, err
	}
	m.BlobsPushed, err = register(reg, m.BlobsPushed)
	if err != nil {
		return nil, err
	}
	m.BlobsPulled, err = register(reg, m.BlobsPulled)
	if err != nil {
		return nil, err
	}
	m.RelayRequests, err = register(reg, m.RelayRequests)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Nop returns collectors registered on a private registry.
func Nop() *Metrics {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		panic(err) // a fresh registry cannot conflict
	}
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}
