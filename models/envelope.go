// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Envelope is the encrypted, versioned form of a record. It is the only form
// in which vault records are ever persisted or transmitted.
//
// Nonce and Contents are standard base64. Version identifies the AEAD
// algorithm and parameters used to produce Contents.
type Envelope struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Nonce    string `json:"nonce"`
	Contents string `json:"contents"`
}

// CurrentState is the on-disk structure of current-state.json: a cached,
// encrypted materialization of the vault.
//
// Position is optional. When present it decrypts to a [SnapshotPosition]
// describing which part of the write log the items already reflect.
type CurrentState struct {
	ID       string     `json:"id"`
	Version  string     `json:"version"`
	Name     string     `json:"name"`
	Items    []Envelope `json:"items"`
	Position *Envelope  `json:"position,omitempty"`
}

// SnapshotPosition is the plaintext of [CurrentState.Position].
type SnapshotPosition struct {
	// At is the highest logical timestamp applied to the snapshot.
	At LogicalTimestamp `json:"at"`

	// Covered is the number of write-log envelopes the snapshot accounts
	// for, applied or quarantined. The log is append-only, so if the
	// envelopes not ordered after At no longer add up to Covered, an older
	// entry arrived after the snapshot was taken.
	Covered int `json:"covered"`

	// Sequences is the highest sequence number applied per device. A device
	// resumes numbering from its entry here when the log suffix holds none
	// of its entries.
	Sequences map[string]uint64 `json:"sequences,omitempty"`

	// Quarantined lists the keys of quarantined envelopes counted in
	// Covered. They carry no timestamp, so the log lists them again from
	// every second at or after At.
	Quarantined []string `json:"quarantined,omitempty"`
}

// CurrentStateVersion is the schema version written to current-state.json.
const CurrentStateVersion = "1.0.0"
