// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// BackendFactory returns a fresh backend with no objects. Every Requester
// opened by name gets its own instance.
type BackendFactory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register makes a backend available to Open and NewBackend under name.
// Backend packages call it from init, so importing them for side effects
// is enough:
//
//	import _ "github.com/gogpu/request/backends/raster" // "raster"
//
// Register panics on an empty name, a nil factory or a name that is
// already taken.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	switch {
	case name == "":
		panic("request: Register with empty backend name")
	case factory == nil:
		panic("request: Register factory is nil for " + name)
	}
	if _, dup := backends[name]; dup {
		panic("request: Register called twice for " + name)
	}
	backends[name] = factory
}

// Unregister removes name from the registry. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// NewBackend builds the backend registered as name. Unknown names fail
// with ErrUnknownBackend, listing what is registered.
func NewBackend(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		registered := strings.Join(Backends(), ", ")
		if registered == "" {
			registered = "none"
		}
		return nil, fmt.Errorf("%w %q (registered: %s; forgotten import?)", ErrUnknownBackend, name, registered)
	}
	b := factory()
	if b == nil {
		return nil, fmt.Errorf("request: backend %q factory returned nil", name)
	}
	return b, nil
}

// MustBackend is like NewBackend but panics on error.
func MustBackend(name string) Backend {
	b, err := NewBackend(name)
	if err != nil {
		panic(err)
	}
	return b
}

// Backends returns the registered names in sorted order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(backends))
}

// IsRegistered reports whether name can be passed to Open.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}
