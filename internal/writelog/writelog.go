// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package writelog implements the append-only, encrypted write log.
//
// Every mutation is sealed into an envelope and stored at a key derived from
// its logical timestamp:
//
//	writes/yyyy/mm/dd/hh-mm-ss-<write-id>.json
//	writes/yyyy/mm/dd/hh-mm-ss-<write-id>-attachments/<attachment-id>
//
// Entries are immutable once written. Listing yields them in logical
// timestamp order regardless of the order in which they arrived.
package writelog

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/crypto"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/metrics"
	"github.com/MKhiriev/go-pastor/models"
)

// Record is one listed entry. Err is non-nil for a quarantined entry: one
// that failed to decrypt ([crypto.ErrDecrypt]) or decode ([ErrDecode]). Its
// Mutation is then the zero value.
type Record struct {
	Key      string
	Mutation models.Mutation
	Err      error
}

// At returns the entry's logical timestamp.
func (r Record) At() models.LogicalTimestamp {
	return r.Mutation.At
}

// Log reads and appends write-log entries under one vault key.
type Log struct {
	mu      sync.Mutex
	store   blob.Store
	codec   crypto.Codec
	key     []byte
	clock   *Clock
	newID   func() (uuid.UUID, error)
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// Option configures a [Log].
type Option func(*Log)

// WithClock replaces the device clock. Tests use it to pin wall time.
func WithClock(c *Clock) Option {
	return func(l *Log) { l.clock = c }
}

// WithMetrics records appends and quarantines on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Log) { l.metrics = m }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(log *logger.Logger) Option {
	return func(l *Log) { l.logger = log }
}

// New returns a log over store that seals entries with codec under key and
// stamps them with device.
func New(store blob.Store, codec crypto.Codec, key []byte, device string, opts ...Option) *Log {
	l := &Log{
		store:   store,
		codec:   codec,
		key:     key,
		clock:   NewClock(device, nil),
		newID:   uuid.NewV7,
		metrics: metrics.Nop(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Device returns the device id stamped on appended entries.
func (l *Log) Device() string {
	return l.clock.Device()
}

// Observe folds a replayed timestamp into the device clock so appends keep
// ordering after everything already seen.
func (l *Log) Observe(ts models.LogicalTimestamp) {
	l.clock.Observe(ts)
}

// Append assigns m its logical timestamp and persists it.
//
// For attachment mutations, data is encrypted under the attachment id and
// written first; the mutation's attachment payload then references that
// blob. The entry becomes visible only once its envelope is written. If that
// write fails the attachment blob is removed and the error matches
// [blob.ErrWrite]; the clock does not advance.
func (l *Log) Append(ctx context.Context, m models.Mutation, data []byte) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	id, err := l.newID()
	if err != nil {
		return Record{}, fmt.Errorf("generate write id: %w", err)
	}
	writeID := id.String()

	m.At = l.clock.Next()
	key := EntryKey(m.At, writeID)

	// 1. attachment blob
	var attachmentKey string
	if m.Type.CarriesAttachment() {
		if m.Value == nil || m.Value.Kind() != models.KindAttachment {
			return Record{}, fmt.Errorf("%w: %s without attachment value", ErrInvalidMutation, m.Type)
		}
		attachmentKey = AttachmentKey(key, m.Value.ID)
		if err = l.writeSealed(ctx, attachmentKey, m.Value.ID, data); err != nil {
			l.logger.Err(err).Str("func", "Log.Append").Str("key", attachmentKey).Msg("failed to write attachment blob")
			return Record{}, err
		}
		value := m.Value.Clone()
		value.Data = models.AttachmentValue{BlobKey: attachmentKey, Size: int64(len(data))}
		m.Value = &value
	}

	// 2. envelope
	plaintext, err := json.Marshal(m)
	if err == nil {
		err = l.writeSealed(ctx, key, writeID, plaintext)
	}
	if err != nil {
		l.logger.Err(err).Str("func", "Log.Append").Str("key", key).Msg("failed to write entry")
		if attachmentKey != "" {
			if rmErr := l.store.Remove(context.WithoutCancel(ctx), attachmentKey); rmErr != nil {
				l.logger.Err(rmErr).Str("func", "Log.Append").Str("key", attachmentKey).Msg("failed to remove orphaned attachment")
			}
		}
		return Record{}, err
	}

	// 3. only a durable entry advances the clock
	l.clock.Observe(m.At)
	l.metrics.EntriesAppended.Inc()

	return Record{Key: key, Mutation: m}, nil
}

func (l *Log) writeSealed(ctx context.Context, key, id string, plaintext []byte) error {
	env, err := l.codec.Encrypt(id, plaintext, l.key)
	if err != nil {
		return fmt.Errorf("%w: seal %s: %w", blob.ErrWrite, key, err)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", blob.ErrWrite, key, err)
	}
	return l.store.Write(ctx, key, data)
}

// ReadAttachment fetches and decrypts the attachment blob at blobKey, which
// must be sealed under attachmentID.
func (l *Log) ReadAttachment(ctx context.Context, blobKey, attachmentID string) ([]byte, error) {
	data, err := l.store.Read(ctx, blobKey)
	if err != nil {
		return nil, err
	}

	var env models.Envelope
	if err = json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: attachment %s: %w", ErrDecode, blobKey, err)
	}
	if env.ID != attachmentID {
		return nil, fmt.Errorf("%w: attachment %s is sealed under another id", ErrDecode, blobKey)
	}
	return l.codec.Decrypt(env, l.key)
}

// Keys returns every entry key in the log, sorted. Attachment blobs are not
// included.
func (l *Log) Keys(ctx context.Context) ([]string, error) {
	all, err := blob.Walk(ctx, l.store, Dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for _, key := range all {
		if IsEntryKey(key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// ListEntries returns the entries ordered strictly after since (all entries
// if since is nil), sorted by logical timestamp.
//
// The sequence is lazy: day directories that end before since are never
// listed, and entries are read and decrypted one second-bucket at a time.
// Entries that fail to decrypt or decode are yielded as quarantined records
// and do not stop the scan. A non-nil error means listing or reading failed;
// it is yielded once and ends the sequence.
//
// Within a bucket quarantined records follow the ordered entries, by key.
func (l *Log) ListEntries(ctx context.Context, since *models.LogicalTimestamp) iter.Seq2[Record, error] {
	var sinceWall int64 = -1
	if since != nil {
		sinceWall = since.Wall
	}

	return func(yield func(Record, error) bool) {
		for day, err := range l.days(ctx) {
			if err != nil {
				yield(Record{}, err)
				return
			}
			if day.Start.Add(24*time.Hour).UnixMilli() <= sinceWall {
				continue
			}

			names, err := l.store.List(ctx, day.Prefix)
			if err != nil {
				yield(Record{}, err)
				return
			}

			for _, bucket := range bucketsBySecond(day.Prefix, names) {
				if bucket.end(day.Start).UnixMilli() <= sinceWall {
					continue
				}
				records, err := l.readBucket(ctx, bucket.keys)
				if err != nil {
					yield(Record{Key: bucket.keys[0]}, err)
					return
				}
				for _, rec := range records {
					if rec.Err == nil && since != nil && !rec.At().After(*since) {
						continue
					}
					if !yield(rec, nil) {
						return
					}
				}
			}
		}
	}
}

type dayDir struct {
	Prefix string
	Start  time.Time
}

// days yields the yyyy/mm/dd directories of the log in lexical, and
// therefore chronological, order.
func (l *Log) days(ctx context.Context) iter.Seq2[dayDir, error] {
	return func(yield func(dayDir, error) bool) {
		years, err := l.store.List(ctx, Dir)
		if err != nil {
			yield(dayDir{}, err)
			return
		}
		for _, year := range dirs(years) {
			months, err := l.store.List(ctx, blob.Join(Dir, year))
			if err != nil {
				yield(dayDir{}, err)
				return
			}
			for _, month := range dirs(months) {
				days, err := l.store.List(ctx, blob.Join(Dir, year, month))
				if err != nil {
					yield(dayDir{}, err)
					return
				}
				for _, day := range dirs(days) {
					start, ok := parseDay(year, month, day)
					if !ok {
						l.logger.Warn().Str("func", "Log.days").Str("dir", blob.Join(Dir, year, month, day)).Msg("skipping unrecognised directory")
						continue
					}
					if !yield(dayDir{Prefix: blob.Join(Dir, year, month, day), Start: start}, nil) {
						return
					}
				}
			}
		}
	}
}

func dirs(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if blob.IsDir(name) {
			out = append(out, strings.TrimSuffix(name, "/"))
		}
	}
	return out
}

type bucket struct {
	second string // hh-mm-ss
	keys   []string
}

// end returns the first instant after the bucket's second.
func (b bucket) end(day time.Time) time.Time {
	t, err := time.Parse(secondLayout, b.second)
	if err != nil {
		return day.Add(24 * time.Hour)
	}
	return day.Add(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second()+1)*time.Second)
}

// bucketsBySecond groups the entry names of one day by their hh-mm-ss prefix.
// names are sorted, so each bucket is contiguous.
func bucketsBySecond(prefix string, names []string) []bucket {
	var buckets []bucket
	for _, name := range names {
		if blob.IsDir(name) || !strings.HasSuffix(name, entrySuffix) {
			continue
		}
		second := name
		if len(name) >= len(secondLayout) {
			second = name[:len(secondLayout)]
		}
		key := blob.Join(prefix, name)
		if n := len(buckets); n > 0 && buckets[n-1].second == second {
			buckets[n-1].keys = append(buckets[n-1].keys, key)
			continue
		}
		buckets = append(buckets, bucket{second: second, keys: []string{key}})
	}
	return buckets
}

func (l *Log) readBucket(ctx context.Context, keys []string) ([]Record, error) {
	var ordered, quarantined []Record
	for _, key := range keys {
		data, err := l.store.Read(ctx, key)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				continue // removed between List and Read
			}
			return nil, err
		}

		m, err := l.decode(key, data)
		if err != nil {
			l.metrics.EntriesQuarantined.Inc()
			l.logger.Warn().Err(err).Str("func", "Log.readBucket").Str("key", key).Msg("quarantined write-log entry")
			quarantined = append(quarantined, Record{Key: key, Err: err})
			continue
		}
		ordered = append(ordered, Record{Key: key, Mutation: m})
	}

	slices.SortFunc(ordered, func(a, b Record) int {
		return cmp.Or(a.At().Compare(b.At()), strings.Compare(a.Key, b.Key))
	})
	return append(ordered, quarantined...), nil
}

// decode opens one entry and checks it against its key.
func (l *Log) decode(key string, data []byte) (models.Mutation, error) {
	second, writeID, err := parseEntryKey(key)
	if err != nil {
		return models.Mutation{}, err
	}

	var env models.Envelope
	if err = json.Unmarshal(data, &env); err != nil {
		return models.Mutation{}, fmt.Errorf("%w: envelope: %w", ErrDecode, err)
	}
	if env.ID != writeID {
		return models.Mutation{}, fmt.Errorf("%w: envelope id does not match key", ErrDecode)
	}

	var m models.Mutation
	if err = crypto.DecryptJSON(l.codec, env, l.key, &m); err != nil {
		if errors.Is(err, crypto.ErrMalformedRecord) {
			return models.Mutation{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return models.Mutation{}, err
	}

	if !m.Type.Valid() {
		return models.Mutation{}, fmt.Errorf("%w: unknown mutation type %q", ErrDecode, m.Type)
	}
	if !m.At.Time().Truncate(time.Second).Equal(second) {
		return models.Mutation{}, fmt.Errorf("%w: timestamp %s does not match key", ErrDecode, m.At)
	}
	return m, nil
}
