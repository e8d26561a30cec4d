// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package objects maps request IDs to the backend objects they denote.
package objects

import (
	"errors"
	"fmt"

	"github.com/gogpu/request"
)

var (
	// ErrDuplicate is returned by Add when the ID is already mapped.
	ErrDuplicate = errors.New("objects: duplicate id")

	// ErrNotFound is returned when an ID is not mapped.
	ErrNotFound = errors.New("objects: not found")

	// ErrWrongType is returned when an ID maps to an object of another type.
	ErrWrongType = errors.New("objects: wrong type")
)

type entry struct {
	object request.Object
	value  any
}

// Map stores backend objects keyed by ID, remembering each object's type
// and insertion order.
//
// Map is not safe for concurrent use.
type Map struct {
	entries map[request.ID]*entry
	order   []request.ID
}

// New creates an empty Map.
func New() *Map {
	return &Map{entries: make(map[request.ID]*entry)}
}

// Add maps id to value of the given type.
func (m *Map) Add(id request.ID, object request.Object, value any) error {
	if id == request.IDNone {
		return fmt.Errorf("objects: add %s: %w", object, request.ErrInvalidID)
	}
	if e, dup := m.entries[id]; dup {
		return fmt.Errorf("%w: %s already maps a %s", ErrDuplicate, id, e.object)
	}
	m.entries[id] = &entry{object: object, value: value}
	m.order = append(m.order, id)
	return nil
}

// Get returns the value mapped to id, which must be of the given type.
func (m *Map) Get(id request.ID, object request.Object) (any, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, object, id)
	}
	if e.object != object {
		return nil, fmt.Errorf("%w: %s is a %s, not a %s", ErrWrongType, id, e.object, object)
	}
	return e.value, nil
}

// Lookup returns the value mapped to id with its type.
func (m *Map) Lookup(id request.ID) (any, request.Object, bool) {
	e, ok := m.entries[id]
	if !ok {
		return nil, request.ObjectNone, false
	}
	return e.value, e.object, true
}

// Type returns the type of the object mapped to id, or ObjectNone.
func (m *Map) Type(id request.ID) request.Object {
	if e, ok := m.entries[id]; ok {
		return e.object
	}
	return request.ObjectNone
}

// Delete removes id and returns the value it mapped.
func (m *Map) Delete(id request.ID) (any, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.entries, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return e.value, nil
}

// Len returns the number of mapped objects.
func (m *Map) Len() int {
	return len(m.entries)
}

// Count returns the number of objects of the given type.
func (m *Map) Count(object request.Object) int {
	n := 0
	for _, e := range m.entries {
		if e.object == object {
			n++
		}
	}
	return n
}

// IDs returns the IDs of objects of the given type in insertion order.
func (m *Map) IDs(object request.Object) []request.ID {
	var ids []request.ID
	for _, id := range m.order {
		if m.entries[id].object == object {
			ids = append(ids, id)
		}
	}
	return ids
}

// First returns the earliest inserted object of the given type.
func (m *Map) First(object request.Object) (request.ID, bool) {
	for _, id := range m.order {
		if m.entries[id].object == object {
			return id, true
		}
	}
	return request.IDNone, false
}

// Last returns the latest inserted object of the given type.
func (m *Map) Last(object request.Object) (request.ID, bool) {
	for i := len(m.order) - 1; i >= 0; i-- {
		if id := m.order[i]; m.entries[id].object == object {
			return id, true
		}
	}
	return request.IDNone, false
}

// Each calls fn for every object in insertion order.
func (m *Map) Each(fn func(id request.ID, object request.Object, value any)) {
	for _, id := range m.order {
		e := m.entries[id]
		fn(id, e.object, e.value)
	}
}

// Get returns the value mapped to id as a T.
func Get[T any](m *Map, id request.ID, object request.Object) (T, error) {
	var zero T
	v, err := m.Get(id, object)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T", ErrWrongType, id, v)
	}
	return t, nil
}
