// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"encoding/binary"
	"fmt"
	"math"
)

// VertexSize is the size in bytes of an encoded Vertex.
const VertexSize = 16

// Vertex is the default vertex layout of graphics pipelines: a position in
// normalized device coordinates and an 8-bit RGBA color.
type Vertex struct {
	Pos   [3]float32
	Color [4]uint8
}

// EncodeVertices packs vertices into the little-endian byte layout expected
// in vertex dats.
func EncodeVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		b := buf[i*VertexSize:]
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.Pos[0]))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Pos[1]))
		binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Pos[2]))
		copy(b[12:16], v.Color[:])
	}
	return buf
}

// DecodeVertices unpacks vertices from a dat. The length of data must be a
// multiple of VertexSize.
func DecodeVertices(data []byte) ([]Vertex, error) {
	if len(data)%VertexSize != 0 {
		return nil, fmt.Errorf("request: vertex data length %d is not a multiple of %d", len(data), VertexSize)
	}
	vertices := make([]Vertex, len(data)/VertexSize)
	for i := range vertices {
		b := data[i*VertexSize:]
		vertices[i].Pos = [3]float32{
			math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
		}
		copy(vertices[i].Color[:], b[12:16])
	}
	return vertices, nil
}
