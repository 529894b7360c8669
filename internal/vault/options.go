// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"time"

	"github.com/MKhiriev/go-pastor/internal/crypto"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/metrics"
	"github.com/MKhiriev/go-pastor/internal/schema"
)

type options struct {
	codecVersion string
	kdf          crypto.KDF
	deviceID     string
	now          func() time.Time
	metrics      *metrics.Metrics
	logger       *logger.Logger
	validator    *schema.Validator
}

// Option configures [Open] and [Create].
type Option func(*options)

// WithCodecVersion selects the envelope version for new writes. Every
// registered version stays readable.
func WithCodecVersion(version string) Option {
	return func(o *options) { o.codecVersion = version }
}

// WithKDF replaces the key-derivation function.
func WithKDF(kdf crypto.KDF) Option {
	return func(o *options) { o.kdf = kdf }
}

// WithKDFParams uses Argon2id with params.
func WithKDFParams(params crypto.KDFParams) Option {
	return func(o *options) { o.kdf = crypto.NewKDF(params) }
}

// WithDeviceID pins the device id instead of reading the local device-id
// file.
func WithDeviceID(id string) Option {
	return func(o *options) { o.deviceID = id }
}

// WithClock sets the wall clock used for logical timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMetrics records log and replay metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{
		codecVersion: crypto.DefaultVersion,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.kdf == nil {
		o.kdf = crypto.NewKDF(crypto.DefaultKDFParams)
	}
	if o.metrics == nil {
		o.metrics = metrics.Nop()
	}
	if o.logger == nil {
		o.logger = logger.Nop()
	}
	if o.validator == nil {
		o.validator = schema.Default()
	}
	return o
}
