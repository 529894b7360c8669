// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault is the session façade over the write log.
//
// A [Vault] starts Locked. Unlock derives the key from the password, checks
// it against a known record, seeds the item set from current-state.json and
// replays the write log on top. While Unlocked every mutation is appended to
// the log and then applied to the in-memory state under one mutex, so reads
// observe a session's own writes immediately.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/crypto"
	"github.com/MKhiriev/go-pastor/internal/materializer"
	"github.com/MKhiriev/go-pastor/internal/writelog"
	"github.com/MKhiriev/go-pastor/models"
)

// Keys of the local vault layout.
const (
	CurrentStateKey = "current-state.json"
	DeviceIDKey     = "device-id"
	AttachmentsDir  = "attachments"
)

// Vault is one vault directory. Its methods are safe for concurrent use.
type Vault struct {
	mu    sync.Mutex
	store blob.Store
	opts  options
	codec crypto.Codec

	id     uuid.UUID
	doc    models.CurrentState
	device string

	// set while unlocked
	key         []byte
	log         *writelog.Log
	items       *materializer.ItemSet
	position    models.LogicalTimestamp
	processed   int
	sequences   map[string]uint64
	quarantined map[string]error
}

// Create initializes a new vault named name in store and returns it Locked.
// The store must not already hold a vault.
func Create(ctx context.Context, store blob.Store, name, password string, opts ...Option) (*Vault, error) {
	o := newOptions(opts)

	if _, err := store.Read(ctx, CurrentStateKey); err == nil {
		return nil, ErrVaultExists
	} else if !errors.Is(err, blob.ErrNotFound) {
		return nil, err
	}

	codec, err := crypto.NewCodec(o.codecVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknown, err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%w: generate vault id: %w", ErrUnknown, err)
	}

	key := o.kdf.DeriveKey(password, id[:])
	defer clear(key)

	position, err := crypto.EncryptJSON(codec, id.String(), models.SnapshotPosition{}, key)
	if err != nil {
		return nil, fmt.Errorf("%w: seal position: %w", ErrUnknown, err)
	}
	doc := models.CurrentState{
		ID:       id.String(),
		Version:  models.CurrentStateVersion,
		Name:     name,
		Items:    []models.Envelope{},
		Position: &position,
	}
	if err = writeDocument(ctx, store, doc); err != nil {
		return nil, err
	}

	o.logger.Info().Str("func", "vault.Create").Str("vault", doc.ID).Msg("vault created")
	return Open(ctx, store, opts...)
}

// Join adds this device to an existing vault: document is that vault's
// current-state.json, copied from another device. It is written to store,
// which must not already hold a vault, and is kept only if password unlocks
// it. The vault is returned Locked with a device id of its own; its write
// log arrives through sync.
func Join(ctx context.Context, store blob.Store, document []byte, password string, opts ...Option) (*Vault, error) {
	o := newOptions(opts)

	if _, err := store.Read(ctx, CurrentStateKey); err == nil {
		return nil, ErrVaultExists
	} else if !errors.Is(err, blob.ErrNotFound) {
		return nil, err
	}
	if err := o.validator.ValidateCurrentState(document); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, CurrentStateKey, err)
	}
	if err := store.Write(ctx, CurrentStateKey, document); err != nil {
		return nil, err
	}

	v, err := Open(ctx, store, opts...)
	if err == nil {
		err = v.Unlock(ctx, password)
	}
	if err != nil {
		if rmErr := store.Remove(context.WithoutCancel(ctx), CurrentStateKey); rmErr != nil {
			o.logger.Err(rmErr).Str("func", "vault.Join").Msg("failed to remove rejected document")
		}
		return nil, err
	}
	v.Lock()

	o.logger.Info().Str("func", "vault.Join").Str("vault", v.ID()).Str("device", v.DeviceID()).Msg("device joined vault")
	return v, nil
}

// Open reads current-state.json from store and returns the vault Locked. It
// also reads the local device id, creating one on first use.
func Open(ctx context.Context, store blob.Store, opts ...Option) (*Vault, error) {
	o := newOptions(opts)

	data, err := store.Read(ctx, CurrentStateKey)
	if err != nil {
		return nil, err
	}
	if err = o.validator.ValidateCurrentState(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, CurrentStateKey, err)
	}

	var doc models.CurrentState
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, CurrentStateKey, err)
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: vault id: %w", ErrDecode, err)
	}

	codec, err := crypto.NewCodec(o.codecVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknown, err)
	}

	device := o.deviceID
	if device == "" {
		if device, err = loadDeviceID(ctx, store); err != nil {
			return nil, err
		}
	}

	return &Vault{
		store:  store,
		opts:   o,
		codec:  codec,
		id:     id,
		doc:    doc,
		device: device,
	}, nil
}

func loadDeviceID(ctx context.Context, store blob.Store) (string, error) {
	data, err := store.Read(ctx, DeviceIDKey)
	if err == nil {
		id, err := uuid.Parse(strings.TrimSpace(string(data)))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrDecode, DeviceIDKey, err)
		}
		return id.String(), nil
	}
	if !errors.Is(err, blob.ErrNotFound) {
		return "", err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("%w: generate device id: %w", ErrUnknown, err)
	}
	if err = store.Write(ctx, DeviceIDKey, []byte(id.String()+"\n")); err != nil {
		return "", err
	}
	return id.String(), nil
}

func writeDocument(ctx context.Context, store blob.Store, doc models.CurrentState) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrUnknown, CurrentStateKey, err)
	}
	return store.Write(ctx, CurrentStateKey, data)
}

// ID returns the vault id.
func (v *Vault) ID() string { return v.id.String() }

// Name returns the display name.
func (v *Vault) Name() string { return v.doc.Name }

// DeviceID returns the id stamped on this device's log entries.
func (v *Vault) DeviceID() string { return v.device }

// IsLocked reports whether the vault is Locked.
func (v *Vault) IsLocked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.key == nil
}

// Unlock derives the key from password and loads the vault state. A wrong
// password returns [ErrVaultLocked] and leaves the vault Locked. Unlocking an
// unlocked vault reloads it.
func (v *Vault) Unlock(ctx context.Context, password string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := v.opts.kdf.DeriveKey(password, v.id[:])
	log := writelog.New(v.store, v.codec, key, v.device,
		writelog.WithClock(writelog.NewClock(v.device, v.opts.now)),
		writelog.WithMetrics(v.opts.metrics),
		writelog.WithLogger(v.opts.logger),
	)

	position, err := v.probe(ctx, log, key)
	if err != nil {
		clear(key)
		if errors.Is(err, ErrDecrypt) {
			return fmt.Errorf("%w: %w", ErrVaultLocked, err)
		}
		return err
	}

	s, err := v.load(ctx, log, key, position)
	if err != nil {
		clear(key)
		return err
	}

	v.lockLocked()
	v.key, v.log = key, log
	v.install(s)

	v.opts.logger.Info().Str("func", "Vault.Unlock").Str("vault", v.ID()).
		Int("items", s.items.Len()).Int("quarantined", len(s.quarantined)).Msg("vault unlocked")
	return nil
}

// Lock discards the key and the materialized state.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lockLocked()
}

func (v *Vault) lockLocked() {
	clear(v.key)
	v.key = nil
	v.log = nil
	v.items = nil
	v.position = models.LogicalTimestamp{}
	v.processed = 0
	v.sequences = nil
	v.quarantined = nil
}

func (v *Vault) install(s session) {
	v.items = s.items
	v.position = s.position
	v.processed = s.processed
	v.sequences = s.sequences
	v.quarantined = s.quarantined

	v.log.Observe(s.position)
	for device, seq := range s.sequences {
		v.log.Observe(models.LogicalTimestamp{Wall: s.position.Wall, Device: device, Seq: seq})
	}
}

func (v *Vault) snapshotPosition() models.SnapshotPosition {
	return models.SnapshotPosition{
		At:          v.position,
		Covered:     v.processed,
		Sequences:   maps.Clone(v.sequences),
		Quarantined: slices.Sorted(maps.Keys(v.quarantined)),
	}
}

func (v *Vault) checkUnlocked() error {
	if v.key == nil {
		return ErrVaultLocked
	}
	return nil
}

// FetchItemIDs returns the item ids in insertion order.
func (v *Vault) FetchItemIDs() ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return nil, err
	}
	return v.items.IDs(), nil
}

// FetchItems returns every item in insertion order.
func (v *Vault) FetchItems() ([]models.Item, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return nil, err
	}
	return v.items.Items(), nil
}

// FetchItem returns the item with id.
func (v *Vault) FetchItem(id string) (models.Item, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return models.Item{}, err
	}
	item, ok := v.items.Item(id)
	if !ok {
		return models.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return item, nil
}

// FetchAttachmentData reads and decrypts the content of the attachment
// value with attachmentID. When the log blob is gone the local snapshot copy
// under attachments/ is read instead. Content whose length differs from the
// recorded size fails with ErrDecode.
func (v *Vault) FetchAttachmentData(ctx context.Context, attachmentID string) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return nil, err
	}
	_, value, ok := v.items.Attachment(attachmentID)
	if !ok {
		return nil, fmt.Errorf("%w: attachment %s", ErrValueNotFound, attachmentID)
	}
	ref, _ := value.Attachment()
	if ref.BlobKey == "" {
		return nil, fmt.Errorf("%w: attachment %s has no data", ErrValueNotFound, attachmentID)
	}
	data, err := v.log.ReadAttachment(ctx, ref.BlobKey, attachmentID)
	if errors.Is(err, blob.ErrNotFound) {
		data, err = v.log.ReadAttachment(ctx, blob.Join(AttachmentsDir, attachmentID), attachmentID)
	}
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != ref.Size {
		return nil, fmt.Errorf("%w: attachment %s holds %d bytes, want %d", ErrDecode, attachmentID, len(data), ref.Size)
	}
	return data, nil
}

// Position returns the logical timestamp of the latest applied entry.
func (v *Vault) Position() (models.LogicalTimestamp, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return models.LogicalTimestamp{}, err
	}
	return v.position, nil
}

// Quarantined returns the keys of log entries skipped during replay, with
// the reason for each.
func (v *Vault) Quarantined() (map[string]error, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return nil, err
	}
	out := make(map[string]error, len(v.quarantined))
	for k, err := range v.quarantined {
		out[k] = err
	}
	return out, nil
}

// Entries returns the decrypted write log in logical order, quarantined
// entries included. It does not change the vault state.
func (v *Vault) Entries(ctx context.Context) ([]writelog.Record, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return nil, err
	}
	var records []writelog.Record
	for rec, err := range v.log.ListEntries(ctx, nil) {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
