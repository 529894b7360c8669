// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"maps"
	"time"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/crypto"
	"github.com/MKhiriev/go-pastor/internal/materializer"
	"github.com/MKhiriev/go-pastor/internal/writelog"
	"github.com/MKhiriev/go-pastor/models"
)

// session is the unlocked state produced by a replay.
type session struct {
	items       *materializer.ItemSet
	position    models.LogicalTimestamp
	processed   int
	sequences   map[string]uint64
	quarantined map[string]error
}

// probe checks key against a known record: the snapshot position, else the
// first snapshot item, else the log envelopes in order until one decrypts.
// It returns the decrypted position when the snapshot has one. A log holding
// envelopes none of which open under key fails with ErrDecrypt; an empty
// log has nothing to check.
func (v *Vault) probe(ctx context.Context, log *writelog.Log, key []byte) (*models.SnapshotPosition, error) {
	if v.doc.Position != nil {
		var pos models.SnapshotPosition
		if err := crypto.DecryptJSON(v.codec, *v.doc.Position, key, &pos); err != nil {
			if errors.Is(err, crypto.ErrMalformedRecord) {
				return nil, fmt.Errorf("%w: snapshot position: %w", ErrDecode, err)
			}
			return nil, err
		}
		return &pos, nil
	}

	if len(v.doc.Items) > 0 {
		_, err := v.codec.Decrypt(v.doc.Items[0], key)
		return nil, err
	}

	keys, err := log.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	for _, k := range keys {
		data, err := v.store.Read(ctx, k)
		if err != nil {
			return nil, err
		}
		var env models.Envelope
		if json.Unmarshal(data, &env) != nil {
			continue
		}
		if _, err = v.codec.Decrypt(env, key); err == nil {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%w: none of %d log entries opens under this password", ErrDecrypt, len(keys))
}

// load builds the session state from the snapshot and the log.
//
// With a position, only the suffix after it is replayed on the snapshot, as
// long as the envelopes before the position still add up to what the
// snapshot covered; otherwise an older entry arrived late and the state is
// rebuilt from empty. Without a position every entry is replayed on the
// snapshot. A snapshot item that does not decrypt forces a rebuild.
func (v *Vault) load(ctx context.Context, log *writelog.Log, key []byte, pos *models.SnapshotPosition) (session, error) {
	defer v.observeReplay(time.Now())

	seed, err := v.seedItems(key)
	if err != nil {
		v.opts.logger.Warn().Err(err).Str("func", "Vault.load").Msg("snapshot untrusted, rebuilding from the write log")
		return replayAll(ctx, log, materializer.NewItemSet())
	}
	if pos == nil {
		return replayAll(ctx, log, seed)
	}

	total, err := log.Keys(ctx)
	if err != nil {
		return session{}, err
	}
	suffix, err := collect(log.ListEntries(ctx, &pos.At))
	if err != nil {
		return session{}, err
	}
	// quarantined records carry no timestamp and are listed from every
	// second at or after the position; the ones it already covers are
	// counted with the envelopes before it
	covered := make(map[string]struct{}, len(pos.Quarantined))
	for _, k := range pos.Quarantined {
		covered[k] = struct{}{}
	}
	fresh := make([]writelog.Record, 0, len(suffix))
	for _, rec := range suffix {
		if _, known := covered[rec.Key]; !known || rec.Err == nil {
			fresh = append(fresh, rec)
		}
	}
	before := len(total) - len(fresh)
	if before != pos.Covered {
		v.opts.logger.Info().Str("func", "Vault.load").Int("covered", pos.Covered).
			Int("before_position", before).Msg("late entries found, rebuilding from the write log")
		return replayAll(ctx, log, materializer.NewItemSet())
	}
	s := build(seed, *pos, fresh)
	for _, rec := range suffix {
		if rec.Err != nil {
			s.quarantined[rec.Key] = rec.Err
		}
	}
	return s, nil
}

func (v *Vault) observeReplay(start time.Time) {
	v.opts.metrics.ReplayDuration.Observe(time.Since(start).Seconds())
}

func (v *Vault) seedItems(key []byte) (*materializer.ItemSet, error) {
	items := make([]models.Item, 0, len(v.doc.Items))
	for _, env := range v.doc.Items {
		var item models.Item
		if err := crypto.DecryptJSON(v.codec, env, key, &item); err != nil {
			return nil, fmt.Errorf("snapshot item %s: %w", env.ID, err)
		}
		if item.ID != env.ID {
			return nil, fmt.Errorf("%w: snapshot item %s holds item %s", ErrDecode, env.ID, item.ID)
		}
		items = append(items, item)
	}
	return materializer.FromItems(items), nil
}

func replayAll(ctx context.Context, log *writelog.Log, base *materializer.ItemSet) (session, error) {
	records, err := collect(log.ListEntries(ctx, nil))
	if err != nil {
		return session{}, err
	}
	return build(base, models.SnapshotPosition{}, records), nil
}

// build replays records on base, continuing from start. processed counts
// every envelope accounted for, quarantined ones included.
func build(base *materializer.ItemSet, start models.SnapshotPosition, records []writelog.Record) session {
	s := session{
		position:    start.At,
		processed:   start.Covered,
		sequences:   maps.Clone(start.Sequences),
		quarantined: make(map[string]error),
	}
	if s.sequences == nil {
		s.sequences = make(map[string]uint64)
	}
	mutations := make([]models.Mutation, 0, len(records))
	for _, rec := range records {
		s.processed++
		if rec.Err != nil {
			s.quarantined[rec.Key] = rec.Err
			continue
		}
		mutations = append(mutations, rec.Mutation)
		at := rec.At()
		s.sequences[at.Device] = max(s.sequences[at.Device], at.Seq)
		if at.After(s.position) {
			s.position = at
		}
	}
	s.items = materializer.Replay(base, mutations)
	return s
}

func collect(seq iter.Seq2[writelog.Record, error]) ([]writelog.Record, error) {
	var records []writelog.Record
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Refresh ingests log entries that arrived since the last replay, typically
// through sync. Entries newer than the applied position are applied
// incrementally; if any older entry turned up the state is rebuilt from
// empty. Either way the result equals a full replay.
func (v *Vault) Refresh(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return err
	}
	defer v.observeReplay(time.Now())

	since := v.position
	records, err := collect(v.log.ListEntries(ctx, &since))
	if err != nil {
		return err
	}
	fresh := records[:0]
	for _, rec := range records {
		if _, known := v.quarantined[rec.Key]; !known {
			fresh = append(fresh, rec)
		}
	}

	keys, err := v.log.Keys(ctx)
	if err != nil {
		return err
	}

	if len(keys)-len(fresh) != v.processed {
		s, err := replayAll(ctx, v.log, materializer.NewItemSet())
		if err != nil {
			return err
		}
		v.install(s)
		v.opts.logger.Info().Str("func", "Vault.Refresh").Int("entries", s.processed).Msg("late entries found, rebuilt from the write log")
		return nil
	}

	s := build(v.items, v.snapshotPosition(), fresh)
	for k, qErr := range v.quarantined {
		s.quarantined[k] = qErr
	}
	v.install(s)
	if len(fresh) > 0 {
		v.opts.logger.Debug().Str("func", "Vault.Refresh").Int("entries", len(fresh)).Msg("applied new entries")
	}
	return nil
}

// SaveSnapshot writes current-state.json with every item and the applied
// position. Attachment blobs referenced by the snapshot are copied to
// attachments/<attachment-id> so reads survive a missing log blob; the
// snapshot keeps the log reference. Copies no item references any more are
// removed.
func (v *Vault) SaveSnapshot(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return err
	}

	items := v.items.Items()
	live := make(map[string]struct{})
	envelopes := make([]models.Envelope, 0, len(items))
	for _, item := range items {
		for _, value := range item.Values {
			ref, ok := value.Attachment()
			if !ok || ref.BlobKey == "" {
				continue
			}
			live[value.ID] = struct{}{}
			copyKey := blob.Join(AttachmentsDir, value.ID)
			if ref.BlobKey == copyKey {
				continue
			}
			data, err := v.store.Read(ctx, ref.BlobKey)
			if errors.Is(err, blob.ErrNotFound) {
				// keep whatever copy an earlier snapshot left
				continue
			}
			if err != nil {
				return err
			}
			if err = v.store.Write(ctx, copyKey, data); err != nil {
				return err
			}
		}

		env, err := crypto.EncryptJSON(v.codec, item.ID, item, v.key)
		if err != nil {
			return fmt.Errorf("%w: seal item %s: %w", ErrUnknown, item.ID, err)
		}
		envelopes = append(envelopes, env)
	}

	position, err := crypto.EncryptJSON(v.codec, v.ID(), v.snapshotPosition(), v.key)
	if err != nil {
		return fmt.Errorf("%w: seal position: %w", ErrUnknown, err)
	}

	doc := v.doc
	doc.Version = models.CurrentStateVersion
	doc.Items = envelopes
	doc.Position = &position
	if err = writeDocument(ctx, v.store, doc); err != nil {
		return err
	}
	v.doc = doc

	v.pruneAttachmentCopies(ctx, live)
	return nil
}

func (v *Vault) pruneAttachmentCopies(ctx context.Context, live map[string]struct{}) {
	names, err := v.store.List(ctx, AttachmentsDir)
	if err != nil {
		v.opts.logger.Err(err).Str("func", "Vault.SaveSnapshot").Msg("failed to list attachment copies")
		return
	}
	for _, name := range names {
		if blob.IsDir(name) {
			continue
		}
		if _, ok := live[name]; ok {
			continue
		}
		key := blob.Join(AttachmentsDir, name)
		if err = v.store.Remove(ctx, key); err != nil {
			v.opts.logger.Err(err).Str("func", "Vault.SaveSnapshot").Str("key", key).Msg("failed to remove attachment copy")
		}
	}
}
