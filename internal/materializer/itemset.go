// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package materializer

import (
	"bytes"
	"slices"

	"github.com/MKhiriev/go-pastor/models"
)

// ItemSet is a materialized vault: items keyed by id, kept in the logical
// order in which they were added.
//
// An ItemSet is not safe for concurrent mutation; the vault guards it.
type ItemSet struct {
	items map[string]models.Item
	order []string
}

// NewItemSet returns an empty set.
func NewItemSet() *ItemSet {
	return &ItemSet{items: make(map[string]models.Item)}
}

// FromItems seeds a set from snapshot items, keeping their order. Later
// duplicates of an id are ignored.
func FromItems(items []models.Item) *ItemSet {
	s := NewItemSet()
	for _, item := range items {
		if _, ok := s.items[item.ID]; ok {
			continue
		}
		s.insert(item.Clone())
	}
	return s
}

// Len returns the number of items.
func (s *ItemSet) Len() int {
	return len(s.order)
}

// IDs returns the item ids in order.
func (s *ItemSet) IDs() []string {
	return slices.Clone(s.order)
}

// Item returns a copy of the item with id.
func (s *ItemSet) Item(id string) (models.Item, bool) {
	item, ok := s.items[id]
	if !ok {
		return models.Item{}, false
	}
	return item.Clone(), true
}

// Items returns copies of all items in order.
func (s *ItemSet) Items() []models.Item {
	out := make([]models.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// Attachment finds an attachment value by its id, which is unique across
// the vault, and returns the owning item id.
func (s *ItemSet) Attachment(valueID string) (string, models.Value, bool) {
	for _, id := range s.order {
		v, n := s.items[id].Value(valueID)
		if n >= 0 && v.Kind() == models.KindAttachment {
			return id, v.Clone(), true
		}
	}
	return "", models.Value{}, false
}

// Clone returns a deep copy of s.
func (s *ItemSet) Clone() *ItemSet {
	c := &ItemSet{
		items: make(map[string]models.Item, len(s.items)),
		order: slices.Clone(s.order),
	}
	for id, item := range s.items {
		c.items[id] = item.Clone()
	}
	return c
}

// Equal reports whether s and other hold the same items, in the same order,
// with the same values.
func (s *ItemSet) Equal(other *ItemSet) bool {
	if !slices.Equal(s.order, other.order) {
		return false
	}
	for _, id := range s.order {
		if !itemsEqual(s.items[id], other.items[id]) {
			return false
		}
	}
	return true
}

func (s *ItemSet) insert(item models.Item) {
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
}

func (s *ItemSet) remove(id string) {
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
}

func itemsEqual(a, b models.Item) bool {
	if a.ID != b.ID || a.Name != b.Name || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if !valuesEqual(a.Values[i], b.Values[i]) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b models.Value) bool {
	if a.ID != b.ID || a.Name != b.Name {
		return false
	}
	switch x := a.Data.(type) {
	case models.TOTPValue:
		y, ok := b.Data.(models.TOTPValue)
		return ok && bytes.Equal(x.Seed, y.Seed)
	default:
		return a.Data == b.Data
	}
}
