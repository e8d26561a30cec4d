// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"reflect"
	"testing"
)

func TestEncodeVerticesLayout(t *testing.T) {
	buf := EncodeVertices([]Vertex{{Pos: [3]float32{1, 0, 0}, Color: [4]uint8{1, 2, 3, 4}}})
	if len(buf) != VertexSize {
		t.Fatalf("len = %d, want %d", len(buf), VertexSize)
	}
	// float32(1) is 0x3f800000, little endian.
	if want := []byte{0x00, 0x00, 0x80, 0x3f}; !reflect.DeepEqual(buf[0:4], want) {
		t.Errorf("x = % x, want % x", buf[0:4], want)
	}
	if want := []byte{1, 2, 3, 4}; !reflect.DeepEqual(buf[12:16], want) {
		t.Errorf("color = %v, want %v", buf[12:16], want)
	}
}

func TestDecodeVertices(t *testing.T) {
	in := []Vertex{
		{Pos: [3]float32{-1, -1, 0}, Color: [4]uint8{255, 0, 0, 255}},
		{Pos: [3]float32{0.5, 0.25, 0}, Color: [4]uint8{0, 255, 0, 128}},
	}
	out, err := DecodeVertices(EncodeVertices(in))
	if err != nil {
		t.Fatalf("DecodeVertices failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("got %v, want %v", out, in)
	}
}

func TestDecodeVerticesBadLength(t *testing.T) {
	if _, err := DecodeVertices(make([]byte, VertexSize+3)); err == nil {
		t.Error("expected error for truncated vertex data")
	}
}
