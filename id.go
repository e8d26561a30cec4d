// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource issues IDs for newly created objects.
// Implementations must never return IDNone.
type IDSource interface {
	NewID() ID
}

// RandomIDs issues IDs from the first 64 bits of random (version 4) UUIDs.
// It is the default IDSource.
type RandomIDs struct{}

// NewID implements IDSource.
func (RandomIDs) NewID() ID {
	for {
		u := uuid.New()
		if id := ID(binary.LittleEndian.Uint64(u[:8])); id != IDNone {
			return id
		}
	}
}

// SequentialIDs issues 1, 2, 3... It is useful for reproducible logs and
// tests. SequentialIDs is safe for concurrent use.
type SequentialIDs struct {
	next atomic.Uint64
}

// NewID implements IDSource.
func (s *SequentialIDs) NewID() ID {
	return ID(s.next.Add(1))
}
