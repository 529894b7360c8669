// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ValueKind is the wire tag of a [Payload] variant.
type ValueKind string

const (
	KindString     ValueKind = "string"
	KindPassword   ValueKind = "password"
	KindTOTP       ValueKind = "totp"
	KindAttachment ValueKind = "attachment"
)

// ErrUnknownValueKind is returned when a value's kind tag is missing or not
// one of the known variants.
var ErrUnknownValueKind = errors.New("unknown value kind")

// Payload is the sealed set of value variants. Only the four types in this
// file implement it; code that needs the concrete data switches on the type.
type Payload interface {
	Kind() ValueKind
	isPayload()
}

// StringValue is plain text.
type StringValue struct {
	Text string
}

// PasswordValue is secret text. Its String method never prints the secret.
type PasswordValue struct {
	Secret string
}

// TOTPValue holds a raw TOTP seed.
type TOTPValue struct {
	Seed []byte
}

// AttachmentValue references encrypted attachment content. The owning
// value's ID doubles as the attachment id, the key the content blob is
// encrypted under.
type AttachmentValue struct {
	// BlobKey is the blob store key of the encrypted content; empty until
	// data has been attached.
	BlobKey string
	// Size is the plaintext length in bytes.
	Size int64
}

func (StringValue) Kind() ValueKind     { return KindString }
func (PasswordValue) Kind() ValueKind   { return KindPassword }
func (TOTPValue) Kind() ValueKind       { return KindTOTP }
func (AttachmentValue) Kind() ValueKind { return KindAttachment }

func (StringValue) isPayload()     {}
func (PasswordValue) isPayload()   {}
func (TOTPValue) isPayload()       {}
func (AttachmentValue) isPayload() {}

func (PasswordValue) String() string   { return "[redacted]" }
func (PasswordValue) GoString() string { return "models.PasswordValue{[redacted]}" }
func (TOTPValue) String() string       { return "[redacted]" }
func (TOTPValue) GoString() string     { return "models.TOTPValue{[redacted]}" }

// Value is one named field of a vault item.
type Value struct {
	// ID is stable for the life of the value and unique within the vault.
	ID string
	// Name is the user-visible label.
	Name string
	// Data is the variant payload. A nil Data is invalid.
	Data Payload
}

// Kind returns the payload kind, or "" if Data is nil.
func (v Value) Kind() ValueKind {
	if v.Data == nil {
		return ""
	}
	return v.Data.Kind()
}

// Attachment returns the attachment payload and true if v is an attachment.
func (v Value) Attachment() (AttachmentValue, bool) {
	a, ok := v.Data.(AttachmentValue)
	return a, ok
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if t, ok := v.Data.(TOTPValue); ok {
		v.Data = TOTPValue{Seed: append([]byte(nil), t.Seed...)}
	}
	return v
}

type valueWire struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Kind    ValueKind `json:"kind"`
	Text    string    `json:"text,omitempty"`
	Secret  string    `json:"secret,omitempty"`
	Seed    []byte    `json:"seed,omitempty"`
	BlobKey string    `json:"blob_key,omitempty"`
	Size    int64     `json:"size,omitempty"`
}

// MarshalJSON encodes the value with a "kind" tag selecting the variant.
func (v Value) MarshalJSON() ([]byte, error) {
	w := valueWire{ID: v.ID, Name: v.Name}
	switch d := v.Data.(type) {
	case StringValue:
		w.Kind, w.Text = KindString, d.Text
	case PasswordValue:
		w.Kind, w.Secret = KindPassword, d.Secret
	case TOTPValue:
		w.Kind, w.Seed = KindTOTP, d.Seed
	case AttachmentValue:
		w.Kind, w.BlobKey, w.Size = KindAttachment, d.BlobKey, d.Size
	default:
		return nil, fmt.Errorf("%w: value %s has no payload", ErrUnknownValueKind, v.ID)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a value written by MarshalJSON.
func (v *Value) UnmarshalJSON(b []byte) error {
	var w valueWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var data Payload
	switch w.Kind {
	case KindString:
		data = StringValue{Text: w.Text}
	case KindPassword:
		data = PasswordValue{Secret: w.Secret}
	case KindTOTP:
		data = TOTPValue{Seed: w.Seed}
	case KindAttachment:
		data = AttachmentValue{BlobKey: w.BlobKey, Size: w.Size}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownValueKind, w.Kind)
	}

	*v = Value{ID: w.ID, Name: w.Name, Data: data}
	return nil
}
