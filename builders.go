// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/gputypes"
)

// --------------------------------------------------------------------------
// Board
// --------------------------------------------------------------------------

// CreateBoard records the creation of an offscreen board of width×height
// pixels and returns the board's ID. The board is not materialized until
// the log is submitted.
//
// It fails with ErrInvalidDimension if width or height is not positive, in
// which case the log is unchanged.
func (r *Requester) CreateBoard(width, height int, opts ...BoardOption) (ID, error) {
	if r.state == StateClosed {
		return IDNone, ErrRequesterClosed
	}
	w, h, err := boardDims(width, height)
	if err != nil {
		return IDNone, err
	}
	p := r.boardParams(opts)
	id := r.ids.NewID()
	req := newRequest(KindCreateBoard, id, BoardContent{Width: w, Height: h, Background: p.background})
	req.Flags = p.flags
	r.push(req)
	return id, nil
}

// UpdateBoard records the execution of the board's recorded commands.
func (r *Requester) UpdateBoard(board ID) error {
	return r.target(KindUpdateBoard, board, nil)
}

// ResizeBoard records a resize of the board.
func (r *Requester) ResizeBoard(board ID, width, height int) error {
	w, h, err := boardDims(width, height)
	if err != nil {
		return r.closedOr(err)
	}
	return r.target(KindResizeBoard, board, BoardContent{Width: w, Height: h})
}

// SetBackground records a change of the board's clear color.
func (r *Requester) SetBackground(board ID, c color.NRGBA) error {
	return r.target(KindSetBackground, board, BoardContent{Background: c})
}

// DeleteBoard records the deletion of the board.
func (r *Requester) DeleteBoard(board ID) error {
	return r.target(KindDeleteBoard, board, nil)
}

// --------------------------------------------------------------------------
// Canvas
// --------------------------------------------------------------------------

// CreateCanvas records the creation of a window-backed canvas.
func (r *Requester) CreateCanvas(width, height int, opts ...BoardOption) (ID, error) {
	if r.state == StateClosed {
		return IDNone, ErrRequesterClosed
	}
	w, h, err := boardDims(width, height)
	if err != nil {
		return IDNone, err
	}
	p := r.boardParams(opts)
	id := r.ids.NewID()
	req := newRequest(KindCreateCanvas, id, CanvasContent{Width: w, Height: h, Background: p.background})
	req.Flags = p.flags
	r.push(req)
	return id, nil
}

// DeleteCanvas records the deletion of the canvas.
func (r *Requester) DeleteCanvas(canvas ID) error {
	return r.target(KindDeleteCanvas, canvas, nil)
}

// --------------------------------------------------------------------------
// Dat
// --------------------------------------------------------------------------

// CreateDat records the creation of a data buffer of size bytes.
func (r *Requester) CreateDat(usage gputypes.BufferUsage, size uint64, flags int) (ID, error) {
	return r.create(KindCreateDat, flags, DatContent{Usage: usage, Size: size})
}

// ResizeDat records a resize of the dat. Existing bytes up to the new size
// are preserved.
func (r *Requester) ResizeDat(dat ID, size uint64) error {
	return r.target(KindResizeDat, dat, DatContent{Size: size})
}

// UploadDat records an upload of data at offset into the dat.
// The data is copied; the caller may reuse the slice.
func (r *Requester) UploadDat(dat ID, offset uint64, data []byte) error {
	return r.target(KindUploadDat, dat, DatUploadContent{Offset: offset, Data: bytes.Clone(data)})
}

// DeleteDat records the deletion of the dat.
func (r *Requester) DeleteDat(dat ID) error {
	return r.target(KindDeleteDat, dat, nil)
}

// --------------------------------------------------------------------------
// Tex
// --------------------------------------------------------------------------

// CreateTex records the creation of a texture.
func (r *Requester) CreateTex(dims gputypes.TextureDimension, format gputypes.TextureFormat, shape [3]uint32, flags int) (ID, error) {
	return r.create(KindCreateTex, flags, TexContent{Dims: dims, Shape: shape, Format: format})
}

// ResizeTex records a resize of the texture.
func (r *Requester) ResizeTex(tex ID, shape [3]uint32) error {
	return r.target(KindResizeTex, tex, TexContent{Shape: shape})
}

// UploadTex records an upload of data into the texture region starting at
// offset with the given shape. The data is copied.
func (r *Requester) UploadTex(tex ID, offset, shape [3]uint32, data []byte) error {
	return r.target(KindUploadTex, tex, TexUploadContent{Offset: offset, Shape: shape, Data: bytes.Clone(data)})
}

// DeleteTex records the deletion of the texture.
func (r *Requester) DeleteTex(tex ID) error {
	return r.target(KindDeleteTex, tex, nil)
}

// --------------------------------------------------------------------------
// Sampler
// --------------------------------------------------------------------------

// CreateSampler records the creation of a texture sampler.
func (r *Requester) CreateSampler(filter gputypes.FilterMode, mode gputypes.AddressMode) (ID, error) {
	return r.create(KindCreateSampler, 0, SamplerContent{Filter: filter, Mode: mode})
}

// DeleteSampler records the deletion of the sampler.
func (r *Requester) DeleteSampler(sampler ID) error {
	return r.target(KindDeleteSampler, sampler, nil)
}

// --------------------------------------------------------------------------
// Graphics
// --------------------------------------------------------------------------

// CreateGraphics records the creation of a graphics pipeline drawing into
// parent, which must be a board or a canvas.
func (r *Requester) CreateGraphics(parent ID, typ GraphicsType, flags int) (ID, error) {
	return r.create(KindCreateGraphics, flags, GraphicsContent{Parent: parent, Type: typ})
}

// CreateShaderGraphics records the creation of a custom graphics pipeline
// defined by WGSL source.
func (r *Requester) CreateShaderGraphics(parent ID, wgsl string, flags int) (ID, error) {
	return r.create(KindCreateGraphics, flags, GraphicsContent{Parent: parent, Type: GraphicsCustom, Shader: wgsl})
}

// SetVertex records the binding of dat as the vertex buffer of graphics.
func (r *Requester) SetVertex(graphics, dat ID) error {
	return r.target(KindSetVertex, graphics, VertexContent{Dat: dat})
}

// BindDat records the binding of dat to a descriptor slot of pipe.
func (r *Requester) BindDat(pipe ID, slot uint32, dat ID) error {
	return r.target(KindBindDat, pipe, BindDatContent{Slot: slot, Dat: dat})
}

// BindTex records the binding of tex and sampler to a descriptor slot of
// pipe.
func (r *Requester) BindTex(pipe ID, slot uint32, tex, sampler ID) error {
	return r.target(KindBindTex, pipe, BindTexContent{Slot: slot, Tex: tex, Sampler: sampler})
}

// DeleteGraphics records the deletion of the graphics pipeline.
func (r *Requester) DeleteGraphics(graphics ID) error {
	return r.target(KindDeleteGraphics, graphics, nil)
}

// --------------------------------------------------------------------------
// Command buffer
// --------------------------------------------------------------------------

// RecordBegin starts a new command buffer for the board or canvas,
// discarding the previous one.
func (r *Requester) RecordBegin(target ID) error {
	return r.record(target, RecordCommand{Type: RecordBegin})
}

// RecordViewport restricts subsequent draws to the given rectangle, in
// pixels.
func (r *Requester) RecordViewport(target ID, offset, shape [2]float32) error {
	return r.record(target, RecordCommand{Type: RecordViewport, Offset: offset, Shape: shape})
}

// RecordDraw draws vertexCount vertices of graphics starting at
// firstVertex.
func (r *Requester) RecordDraw(target, graphics ID, firstVertex, vertexCount uint32) error {
	return r.record(target, RecordCommand{
		Type:        RecordDraw,
		Graphics:    graphics,
		FirstVertex: firstVertex,
		VertexCount: vertexCount,
	})
}

// RecordEnd closes the command buffer of the board or canvas.
func (r *Requester) RecordEnd(target ID) error {
	return r.record(target, RecordCommand{Type: RecordEnd})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (r *Requester) boardParams(opts []BoardOption) boardParams {
	p := boardParams{background: r.background}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// create validates and appends a request for a new object, returning its ID.
func (r *Requester) create(kind Kind, flags int, content Content) (ID, error) {
	if r.state == StateClosed {
		return IDNone, ErrRequesterClosed
	}
	req := newRequest(kind, r.ids.NewID(), content)
	req.Flags = flags
	if err := Validate(req); err != nil {
		return IDNone, err
	}
	r.push(req)
	return req.ID, nil
}

// target validates and appends a request on an existing object.
func (r *Requester) target(kind Kind, id ID, content Content) error {
	if r.state == StateClosed {
		return ErrRequesterClosed
	}
	req := newRequest(kind, id, content)
	if err := Validate(req); err != nil {
		return err
	}
	r.push(req)
	return nil
}

func (r *Requester) record(target ID, cmd RecordCommand) error {
	return r.target(KindRecord, target, RecordContent{Command: cmd})
}

// closedOr reports ErrRequesterClosed in preference to err.
func (r *Requester) closedOr(err error) error {
	if r.state == StateClosed {
		return ErrRequesterClosed
	}
	return err
}

// boardDims converts pixel dimensions, rejecting non-positive or oversized values.
func boardDims(width, height int) (uint32, uint32, error) {
	if width <= 0 || height <= 0 || uint64(width) > math.MaxUint32 || uint64(height) > math.MaxUint32 {
		return 0, 0, fmt.Errorf("%w: width=%d height=%d", ErrInvalidDimension, width, height)
	}
	return uint32(width), uint32(height), nil
}
