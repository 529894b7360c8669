// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// MutationType identifies the operation a write-log entry performs.
type MutationType string

const (
	MutationAddItem              MutationType = "add_item"
	MutationRemoveItem           MutationType = "remove_item"
	MutationRenameItem           MutationType = "rename_item"
	MutationAddValue             MutationType = "add_value"
	MutationRemoveValue          MutationType = "remove_value"
	MutationUpdateValue          MutationType = "update_value"
	MutationAddAttachmentData    MutationType = "add_attachment_data"
	MutationUpdateAttachmentData MutationType = "update_attachment_data"
)

// Valid reports whether t is one of the known mutation types.
func (t MutationType) Valid() bool {
	switch t {
	case MutationAddItem, MutationRemoveItem, MutationRenameItem,
		MutationAddValue, MutationRemoveValue, MutationUpdateValue,
		MutationAddAttachmentData, MutationUpdateAttachmentData:
		return true
	}
	return false
}

// CarriesAttachment reports whether entries of type t reference attachment
// content stored next to the entry.
func (t MutationType) CarriesAttachment() bool {
	return t == MutationAddAttachmentData || t == MutationUpdateAttachmentData
}

// Mutation is a write-log entry before encryption. Plaintext mutations never
// leave memory.
//
// Field use by type:
//
//	add_item               ItemID, Name, Values
//	remove_item            ItemID
//	rename_item            ItemID, Name
//	add_value              ItemID, Value
//	remove_value           ItemID, ValueID
//	update_value           ItemID, Value
//	add_attachment_data    ItemID, Value (attachment payload with BlobKey)
//	update_attachment_data ItemID, ValueID, Value (attachment payload)
type Mutation struct {
	Type    MutationType     `json:"type"`
	At      LogicalTimestamp `json:"at"`
	ItemID  string           `json:"item_id"`
	ValueID string           `json:"value_id,omitempty"`
	Name    string           `json:"name,omitempty"`
	Values  []Value          `json:"values,omitempty"`
	Value   *Value           `json:"value,omitempty"`
}

// TargetValueID returns the id of the value the mutation addresses, or ""
// for item-level mutations.
func (m Mutation) TargetValueID() string {
	if m.ValueID != "" {
		return m.ValueID
	}
	if m.Value != nil {
		return m.Value.ID
	}
	return ""
}
