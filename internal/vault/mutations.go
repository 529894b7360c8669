// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-pastor/internal/writelog"
	"github.com/MKhiriev/go-pastor/models"
)

// NewID returns a fresh identifier for an item or value.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("%w: generate id: %w", ErrUnknown, err)
	}
	return id.String(), nil
}

// commit appends m and applies the written entry. Nothing changes if the
// append fails. Callers hold v.mu.
func (v *Vault) commit(ctx context.Context, m models.Mutation, data []byte) (writelog.Record, error) {
	rec, err := v.log.Append(ctx, m, data)
	if err != nil {
		return writelog.Record{}, err
	}
	v.items.ApplyInPlace(rec.Mutation)
	at := rec.At()
	v.position = at
	v.processed++
	v.sequences[at.Device] = max(v.sequences[at.Device], at.Seq)
	return rec, nil
}

// AddItem creates an item with name and initial values. Values without an
// id are assigned one. Attachments are added separately with
// [Vault.AddAttachment].
func (v *Vault) AddItem(ctx context.Context, name string, values ...models.Value) (models.Item, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUnlocked(); err != nil {
		return models.Item{}, err
	}

	id, err := NewID()
	if err != nil {
		return models.Item{}, err
	}
	initial := make([]models.Value, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if value.Kind() == models.KindAttachment {
			return models.Item{}, fmt.Errorf("%w: attachments are added with AddAttachment", ErrInvalidValue)
		}
		if value, err = v.prepareValue(value); err != nil {
			return models.Item{}, err
		}
		if _, dup := seen[value.ID]; dup {
			return models.Item{}, fmt.Errorf("%w: %s", ErrValueExists, value.ID)
		}
		seen[value.ID] = struct{}{}
		initial = append(initial, value)
	}

	_, err = v.commit(ctx, models.Mutation{
		Type:   models.MutationAddItem,
		ItemID: id,
		Name:   name,
		Values: initial,
	}, nil)
	if err != nil {
		return models.Item{}, err
	}
	item, _ := v.items.Item(id)
	return item, nil
}

// RemoveItem deletes the item with id.
func (v *Vault) RemoveItem(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := v.existingItem(id); err != nil {
		return err
	}
	_, err := v.commit(ctx, models.Mutation{Type: models.MutationRemoveItem, ItemID: id}, nil)
	return err
}

// RenameItem sets the name of the item with id.
func (v *Vault) RenameItem(ctx context.Context, id, name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := v.existingItem(id); err != nil {
		return err
	}
	_, err := v.commit(ctx, models.Mutation{Type: models.MutationRenameItem, ItemID: id, Name: name}, nil)
	return err
}

// AddItemValue appends value to the item and returns it with its id.
func (v *Vault) AddItemValue(ctx context.Context, itemID string, value models.Value) (models.Value, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := v.existingItem(itemID); err != nil {
		return models.Value{}, err
	}
	if value.Kind() == models.KindAttachment {
		return models.Value{}, fmt.Errorf("%w: attachments are added with AddAttachment", ErrInvalidValue)
	}
	value, err := v.prepareValue(value)
	if err != nil {
		return models.Value{}, err
	}

	_, err = v.commit(ctx, models.Mutation{Type: models.MutationAddValue, ItemID: itemID, Value: &value}, nil)
	if err != nil {
		return models.Value{}, err
	}
	return value, nil
}

// RemoveItemValue deletes a value, attachments included, from the item.
func (v *Vault) RemoveItemValue(ctx context.Context, itemID, valueID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	item, err := v.existingItem(itemID)
	if err != nil {
		return err
	}
	if _, n := item.Value(valueID); n < 0 {
		return fmt.Errorf("%w: %s", ErrValueNotFound, valueID)
	}
	_, err = v.commit(ctx, models.Mutation{Type: models.MutationRemoveValue, ItemID: itemID, ValueID: valueID}, nil)
	return err
}

// UpdateItemValue replaces the name and payload of an existing value. An
// attachment value can only be renamed this way; its content changes with
// [Vault.UpdateAttachmentData].
func (v *Vault) UpdateItemValue(ctx context.Context, itemID string, value models.Value) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	item, err := v.existingItem(itemID)
	if err != nil {
		return err
	}
	current, n := item.Value(value.ID)
	if n < 0 {
		return fmt.Errorf("%w: %s", ErrValueNotFound, value.ID)
	}

	if ref, isAttachment := current.Attachment(); isAttachment {
		if value.Data != nil && value.Kind() != models.KindAttachment {
			return fmt.Errorf("%w: cannot change the kind of attachment %s", ErrInvalidValue, value.ID)
		}
		value.Data = ref
	} else if value.Kind() == models.KindAttachment {
		return fmt.Errorf("%w: cannot turn value %s into an attachment", ErrInvalidValue, value.ID)
	}
	if value.Data == nil {
		return fmt.Errorf("%w: value %s has no payload", ErrInvalidValue, value.ID)
	}

	_, err = v.commit(ctx, models.Mutation{Type: models.MutationUpdateValue, ItemID: itemID, Value: &value}, nil)
	return err
}

// AddAttachment adds an attachment value holding data to the item and
// returns the value with its id and blob reference.
func (v *Vault) AddAttachment(ctx context.Context, itemID string, attachment models.Value, data []byte) (models.Value, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := v.existingItem(itemID); err != nil {
		return models.Value{}, err
	}
	if attachment.Data == nil {
		attachment.Data = models.AttachmentValue{}
	}
	if attachment.Kind() != models.KindAttachment {
		return models.Value{}, fmt.Errorf("%w: %s is not an attachment", ErrInvalidValue, attachment.ID)
	}
	attachment, err := v.prepareValue(attachment)
	if err != nil {
		return models.Value{}, err
	}

	rec, err := v.commit(ctx, models.Mutation{
		Type:   models.MutationAddAttachmentData,
		ItemID: itemID,
		Value:  &attachment,
	}, data)
	if err != nil {
		return models.Value{}, err
	}
	return *rec.Mutation.Value, nil
}

// UpdateAttachmentData replaces the content of an existing attachment.
func (v *Vault) UpdateAttachmentData(ctx context.Context, itemID, attachmentID string, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	item, err := v.existingItem(itemID)
	if err != nil {
		return err
	}
	current, n := item.Value(attachmentID)
	if n < 0 {
		return fmt.Errorf("%w: %s", ErrValueNotFound, attachmentID)
	}
	if current.Kind() != models.KindAttachment {
		return fmt.Errorf("%w: %s is not an attachment", ErrInvalidValue, attachmentID)
	}

	_, err = v.commit(ctx, models.Mutation{
		Type:    models.MutationUpdateAttachmentData,
		ItemID:  itemID,
		ValueID: attachmentID,
		Value:   &current,
	}, data)
	return err
}

func (v *Vault) existingItem(id string) (models.Item, error) {
	if err := v.checkUnlocked(); err != nil {
		return models.Item{}, err
	}
	item, ok := v.items.Item(id)
	if !ok {
		return models.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return item, nil
}

// prepareValue assigns an id if missing and checks that the payload is set
// and the id is unused anywhere in the vault.
func (v *Vault) prepareValue(value models.Value) (models.Value, error) {
	if value.Data == nil {
		return models.Value{}, fmt.Errorf("%w: value %q has no payload", ErrInvalidValue, value.Name)
	}
	if value.ID == "" {
		id, err := NewID()
		if err != nil {
			return models.Value{}, err
		}
		value.ID = id
		return value, nil
	}
	for _, item := range v.items.Items() {
		if _, n := item.Value(value.ID); n >= 0 {
			return models.Value{}, fmt.Errorf("%w: %s", ErrValueExists, value.ID)
		}
	}
	return value, nil
}
