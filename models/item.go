// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Item is a vault item: a named, ordered list of values.
type Item struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Values []Value `json:"values"`
}

// Value returns the value with the given id and its index, or -1.
func (i Item) Value(id string) (Value, int) {
	for n, v := range i.Values {
		if v.ID == id {
			return v, n
		}
	}
	return Value{}, -1
}

// Clone returns a deep copy of i.
func (i Item) Clone() Item {
	values := make([]Value, len(i.Values))
	for n, v := range i.Values {
		values[n] = v.Clone()
	}
	i.Values = values
	return i
}
