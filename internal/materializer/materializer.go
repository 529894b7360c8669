// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package materializer replays write-log mutations into an [ItemSet].
//
// Replay is a pure function of the logical order of the entries: every
// mutation is existence-checked, so duplicates are no-ops and an entry
// aimed at an item that a logically later entry removed is ignored. Because
// entries are applied in logical order, the last writer to each field wins.
// The granularity is the item name and each value as a whole, keyed by
// value id.
package materializer

import (
	"slices"

	"github.com/MKhiriev/go-pastor/models"
)

// Apply returns the state after m, leaving state untouched.
func Apply(state *ItemSet, m models.Mutation) *ItemSet {
	next := state.Clone()
	next.ApplyInPlace(m)
	return next
}

// Materialize sorts entries by logical timestamp and replays them from an
// empty set. The input slice is not modified.
func Materialize(entries []models.Mutation) *ItemSet {
	return Replay(NewItemSet(), entries)
}

// Replay applies entries in logical order to a copy of base.
func Replay(base *ItemSet, entries []models.Mutation) *ItemSet {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b models.Mutation) int {
		return a.At.Compare(b.At)
	})

	state := base.Clone()
	for _, m := range sorted {
		state.ApplyInPlace(m)
	}
	return state
}

// ApplyInPlace applies m to s.
func (s *ItemSet) ApplyInPlace(m models.Mutation) {
	switch m.Type {
	case models.MutationAddItem:
		if _, ok := s.items[m.ItemID]; ok {
			return
		}
		s.insert(models.Item{ID: m.ItemID, Name: m.Name, Values: initialValues(m.Values)})

	case models.MutationRemoveItem:
		if _, ok := s.items[m.ItemID]; ok {
			s.remove(m.ItemID)
		}

	case models.MutationRenameItem:
		s.update(m.ItemID, func(item *models.Item) {
			item.Name = m.Name
		})

	case models.MutationAddValue:
		if m.Value == nil || m.Value.Data == nil {
			return
		}
		s.update(m.ItemID, func(item *models.Item) {
			if _, n := item.Value(m.Value.ID); n < 0 {
				item.Values = append(item.Values, m.Value.Clone())
			}
		})

	case models.MutationRemoveValue:
		s.update(m.ItemID, func(item *models.Item) {
			if _, n := item.Value(m.TargetValueID()); n >= 0 {
				item.Values = slices.Delete(item.Values, n, n+1)
			}
		})

	case models.MutationUpdateValue:
		if m.Value == nil || m.Value.Data == nil {
			return
		}
		s.update(m.ItemID, func(item *models.Item) {
			if _, n := item.Value(m.Value.ID); n >= 0 {
				item.Values[n] = m.Value.Clone()
			}
		})

	case models.MutationAddAttachmentData:
		if m.Value == nil || m.Value.Kind() != models.KindAttachment {
			return
		}
		s.update(m.ItemID, func(item *models.Item) {
			v, n := item.Value(m.Value.ID)
			if n < 0 {
				item.Values = append(item.Values, m.Value.Clone())
				return
			}
			if m.Value.Name != "" {
				v.Name = m.Value.Name
			}
			v.Data = m.Value.Data
			item.Values[n] = v
		})

	case models.MutationUpdateAttachmentData:
		if m.Value == nil {
			return
		}
		ref, ok := m.Value.Attachment()
		if !ok {
			return
		}
		s.update(m.ItemID, func(item *models.Item) {
			v, n := item.Value(m.TargetValueID())
			if n < 0 || v.Kind() != models.KindAttachment {
				return
			}
			v.Data = ref
			item.Values[n] = v
		})
	}
}

// update runs fn on a copy of the item with id, if present, and stores it.
func (s *ItemSet) update(id string, fn func(item *models.Item)) {
	item, ok := s.items[id]
	if !ok {
		return
	}
	item = item.Clone()
	fn(&item)
	s.items[id] = item
}

// initialValues keeps the first occurrence of each value id and drops
// attachments, which only enter through attachment mutations.
func initialValues(values []models.Value) []models.Value {
	out := make([]models.Value, 0, len(values))
	for _, v := range values {
		if v.Data == nil || v.Kind() == models.KindAttachment {
			continue
		}
		if slices.ContainsFunc(out, func(o models.Value) bool { return o.ID == v.ID }) {
			continue
		}
		out = append(out, v.Clone())
	}
	return out
}
