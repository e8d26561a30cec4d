// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"strings"
	"testing"
)

const triangleWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    var pos = array<vec2<f32>, 3>(
        vec2<f32>(0.0, 0.5),
        vec2<f32>(-0.5, -0.5),
        vec2<f32>(0.5, -0.5)
    );
    return vec4<f32>(pos[idx], 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func TestCompile(t *testing.T) {
	words, err := Compile(triangleWGSL)
	if err != nil {
		if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("Compile failed: %v", err)
	}
	if len(words) < 5 {
		t.Fatalf("module too short: %d words", len(words))
	}
	if words[0] != Magic {
		t.Errorf("magic = 0x%08x, want 0x%08x", words[0], Magic)
	}
}

func TestCompileEmpty(t *testing.T) {
	for _, src := range []string{"", "   \n\t"} {
		if _, err := Compile(src); !errors.Is(err, ErrEmptySource) {
			t.Errorf("Compile(%q) err = %v, want ErrEmptySource", src, err)
		}
	}
}

func TestCompileSyntaxError(t *testing.T) {
	if _, err := Compile("fn broken( {"); err == nil {
		t.Error("Compile accepted invalid WGSL")
	}
}

func TestWords(t *testing.T) {
	words, err := Words([]byte{0x03, 0x02, 0x23, 0x07, 0x01, 0x00, 0x00, 0x00, 0x78, 0x56, 0x34, 0x12})
	if err != nil {
		t.Fatalf("Words failed: %v", err)
	}
	if len(words) != 3 || words[0] != Magic || words[1] != 1 || words[2] != 0x12345678 {
		t.Errorf("Words = %#x", words)
	}

	tests := [][]byte{
		nil,
		{0x03, 0x02, 0x23},
		{0x03, 0x02, 0x23, 0x07, 0x01},
		{0xde, 0xad, 0xbe, 0xef},
	}
	for _, in := range tests {
		if _, err := Words(in); !errors.Is(err, ErrInvalidModule) {
			t.Errorf("Words(% x) err = %v, want ErrInvalidModule", in, err)
		}
	}
}
