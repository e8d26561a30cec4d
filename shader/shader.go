// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader compiles the WGSL source of custom graphics pipelines to
// SPIR-V using naga.
package shader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
)

// Magic is the first word of every SPIR-V module.
const Magic uint32 = 0x07230203

var (
	// ErrEmptySource is returned when the WGSL source is blank.
	ErrEmptySource = errors.New("shader: empty source")

	// ErrInvalidModule is returned when the compiler output is not a
	// well-formed SPIR-V word stream.
	ErrInvalidModule = errors.New("shader: invalid SPIR-V module")
)

// Compile compiles WGSL source to SPIR-V words.
func Compile(wgsl string) ([]uint32, error) {
	if strings.TrimSpace(wgsl) == "" {
		return nil, ErrEmptySource
	}

	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	return Words(spirvBytes)
}

// Words converts a little-endian SPIR-V byte stream to words and checks the
// magic number.
func Words(spirv []byte) ([]uint32, error) {
	if len(spirv) < 4 || len(spirv)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidModule, len(spirv))
	}

	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	if words[0] != Magic {
		return nil, fmt.Errorf("%w: magic 0x%08x", ErrInvalidModule, words[0])
	}
	return words, nil
}
