// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"bytes"
	"image/color"

	"github.com/gogpu/gputypes"
)

// Content holds the kind-specific parameters of a Request.
// The set of implementations is closed; see the *Content types below.
type Content interface {
	clone() Content
}

// BoardContent parameterizes CreateBoard, ResizeBoard and SetBackground.
type BoardContent struct {
	Width      uint32
	Height     uint32
	Background color.NRGBA
}

func (c BoardContent) clone() Content { return c }

// CanvasContent parameterizes CreateCanvas.
type CanvasContent struct {
	Width      uint32
	Height     uint32
	Background color.NRGBA
}

func (c CanvasContent) clone() Content { return c }

// DatContent parameterizes CreateDat and ResizeDat.
type DatContent struct {
	Usage gputypes.BufferUsage
	Size  uint64
}

func (c DatContent) clone() Content { return c }

// DatUploadContent parameterizes UploadDat.
type DatUploadContent struct {
	Offset uint64
	Data   []byte
}

func (c DatUploadContent) clone() Content {
	c.Data = bytes.Clone(c.Data)
	return c
}

// TexContent parameterizes CreateTex and ResizeTex.
type TexContent struct {
	Dims   gputypes.TextureDimension
	Shape  [3]uint32
	Format gputypes.TextureFormat
}

func (c TexContent) clone() Content { return c }

// TexUploadContent parameterizes UploadTex.
type TexUploadContent struct {
	Offset [3]uint32
	Shape  [3]uint32
	Data   []byte
}

func (c TexUploadContent) clone() Content {
	c.Data = bytes.Clone(c.Data)
	return c
}

// SamplerContent parameterizes CreateSampler.
type SamplerContent struct {
	Filter gputypes.FilterMode
	Mode   gputypes.AddressMode
}

func (c SamplerContent) clone() Content { return c }

// GraphicsType selects the primitive a graphics pipeline draws.
type GraphicsType uint8

const (
	GraphicsNone GraphicsType = iota
	GraphicsPoint
	GraphicsLineList
	GraphicsLineStrip
	GraphicsTriangleList
	GraphicsTriangleStrip
	GraphicsTriangleFan
	GraphicsCustom // Pipeline defined by a WGSL shader
)

var graphicsTypeNames = [...]string{
	GraphicsNone:          "None",
	GraphicsPoint:         "Point",
	GraphicsLineList:      "LineList",
	GraphicsLineStrip:     "LineStrip",
	GraphicsTriangleList:  "TriangleList",
	GraphicsTriangleStrip: "TriangleStrip",
	GraphicsTriangleFan:   "TriangleFan",
	GraphicsCustom:        "Custom",
}

// String returns the string representation of a GraphicsType.
func (t GraphicsType) String() string {
	if int(t) < len(graphicsTypeNames) {
		return graphicsTypeNames[t]
	}
	return "Unknown"
}

// Valid reports whether t is a drawable graphics type.
func (t GraphicsType) Valid() bool {
	return t > GraphicsNone && t <= GraphicsCustom
}

// GraphicsContent parameterizes CreateGraphics.
// Shader is only set for GraphicsCustom and holds WGSL source.
type GraphicsContent struct {
	Parent ID
	Type   GraphicsType
	Shader string
}

func (c GraphicsContent) clone() Content { return c }

// VertexContent parameterizes SetVertex.
type VertexContent struct {
	Dat ID
}

func (c VertexContent) clone() Content { return c }

// BindDatContent parameterizes BindDat.
type BindDatContent struct {
	Slot uint32
	Dat  ID
}

func (c BindDatContent) clone() Content { return c }

// BindTexContent parameterizes BindTex.
type BindTexContent struct {
	Slot    uint32
	Tex     ID
	Sampler ID
}

func (c BindTexContent) clone() Content { return c }

// RecordType identifies a command-buffer record.
type RecordType uint8

const (
	RecordNone RecordType = iota
	RecordBegin
	RecordViewport
	RecordDraw
	RecordEnd
)

var recordTypeNames = [...]string{
	RecordNone:     "None",
	RecordBegin:    "Begin",
	RecordViewport: "Viewport",
	RecordDraw:     "Draw",
	RecordEnd:      "End",
}

// String returns the string representation of a RecordType.
func (t RecordType) String() string {
	if int(t) < len(recordTypeNames) {
		return recordTypeNames[t]
	}
	return "Unknown"
}

// RecordCommand is one entry of a board or canvas command buffer.
// Offset and Shape are used by RecordViewport; Graphics, FirstVertex and
// VertexCount by RecordDraw.
type RecordCommand struct {
	Type        RecordType
	Offset      [2]float32
	Shape       [2]float32
	Graphics    ID
	FirstVertex uint32
	VertexCount uint32
}

// RecordContent parameterizes Record requests.
type RecordContent struct {
	Command RecordCommand
}

func (c RecordContent) clone() Content { return c }
