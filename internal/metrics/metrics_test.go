// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew_RegistersAllCollectors verifies that every collector is exposed
// under the pastor namespace.
func TestNew_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.EntriesAppended.Inc()
	m.EntriesQuarantined.Inc()
	m.ReplayDuration.Observe(0.01)
	m.BlobsPushed.Inc()
	m.BlobsPulled.Inc()
	m.RelayRequests.WithLabelValues("GET", "200").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"pastor_log_entries_appended_total",
		"pastor_log_entries_quarantined_total",
		"pastor_replay_duration_seconds",
		"pastor_sync_blobs_pushed_total",
		"pastor_sync_blobs_pulled_total",
		"pastor_relay_requests_total",
	}, names)
}

// TestNew_ReusesRegisteredCollectors verifies that a second New on the same
// registry shares counters with the first.
func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.EntriesAppended.Inc()
	second.EntriesAppended.Inc()
	first.RelayRequests.WithLabelValues("PUT", "204").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(first.EntriesAppended))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.RelayRequests.WithLabelValues("PUT", "204")))
}

// TestNop_IsIndependent verifies that Nop instances do not share state.
func TestNop_IsIndependent(t *testing.T) {
	a, b := Nop(), Nop()
	a.BlobsPushed.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.BlobsPushed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BlobsPushed))
}
