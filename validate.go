// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"fmt"
	"math"
)

// Validate checks that req is well formed: a known kind, a content value of
// the matching type, positive dimensions and sizes, and non-zero IDs where
// an object is referenced. Validate does not consult any backend.
func Validate(req Request) error {
	if req.Version != Version {
		return fmt.Errorf("%w: version %d, want %d", ErrInvalidRequest, req.Version, Version)
	}
	if req.ID == IDNone {
		return fmt.Errorf("%w: %s without id", ErrInvalidID, req.Kind)
	}

	switch req.Kind {
	case KindUpdateBoard, KindDeleteBoard, KindDeleteCanvas, KindDeleteDat,
		KindDeleteTex, KindDeleteSampler, KindDeleteGraphics:
		if req.Content != nil {
			return mismatch(req)
		}
		return nil

	case KindCreateBoard, KindResizeBoard:
		c, ok := req.Content.(BoardContent)
		if !ok {
			return mismatch(req)
		}
		return checkDims(c.Width, c.Height)

	case KindSetBackground:
		if _, ok := req.Content.(BoardContent); !ok {
			return mismatch(req)
		}
		return nil

	case KindCreateCanvas:
		c, ok := req.Content.(CanvasContent)
		if !ok {
			return mismatch(req)
		}
		return checkDims(c.Width, c.Height)

	case KindCreateDat, KindResizeDat:
		c, ok := req.Content.(DatContent)
		if !ok {
			return mismatch(req)
		}
		if c.Size == 0 {
			return fmt.Errorf("%w: %s of 0 bytes", ErrInvalidSize, req.Kind)
		}
		return nil

	case KindUploadDat:
		c, ok := req.Content.(DatUploadContent)
		if !ok {
			return mismatch(req)
		}
		if len(c.Data) == 0 {
			return fmt.Errorf("%w: empty upload", ErrInvalidSize)
		}
		return nil

	case KindCreateTex, KindResizeTex:
		c, ok := req.Content.(TexContent)
		if !ok {
			return mismatch(req)
		}
		return checkShape(c.Shape)

	case KindUploadTex:
		c, ok := req.Content.(TexUploadContent)
		if !ok {
			return mismatch(req)
		}
		if err := checkShape(c.Shape); err != nil {
			return err
		}
		if len(c.Data) == 0 {
			return fmt.Errorf("%w: empty upload", ErrInvalidSize)
		}
		return nil

	case KindCreateSampler:
		if _, ok := req.Content.(SamplerContent); !ok {
			return mismatch(req)
		}
		return nil

	case KindCreateGraphics:
		c, ok := req.Content.(GraphicsContent)
		if !ok {
			return mismatch(req)
		}
		if c.Parent == IDNone {
			return fmt.Errorf("%w: graphics without parent", ErrInvalidID)
		}
		if !c.Type.Valid() {
			return fmt.Errorf("%w: graphics type %s", ErrInvalidRequest, c.Type)
		}
		if c.Type == GraphicsCustom && c.Shader == "" {
			return fmt.Errorf("%w: custom graphics without shader", ErrInvalidRequest)
		}
		return nil

	case KindSetVertex:
		c, ok := req.Content.(VertexContent)
		if !ok {
			return mismatch(req)
		}
		return checkRef("dat", c.Dat)

	case KindBindDat:
		c, ok := req.Content.(BindDatContent)
		if !ok {
			return mismatch(req)
		}
		return checkRef("dat", c.Dat)

	case KindBindTex:
		c, ok := req.Content.(BindTexContent)
		if !ok {
			return mismatch(req)
		}
		if err := checkRef("tex", c.Tex); err != nil {
			return err
		}
		return checkRef("sampler", c.Sampler)

	case KindRecord:
		c, ok := req.Content.(RecordContent)
		if !ok {
			return mismatch(req)
		}
		return checkRecord(c.Command)
	}

	return fmt.Errorf("%w: unknown kind %s", ErrInvalidRequest, req.Kind)
}

func mismatch(req Request) error {
	return fmt.Errorf("%w: %s with content %T", ErrInvalidRequest, req.Kind, req.Content)
}

func checkDims(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: width=%d height=%d", ErrInvalidDimension, width, height)
	}
	return nil
}

func checkShape(shape [3]uint32) error {
	if shape[0] == 0 || shape[1] == 0 || shape[2] == 0 {
		return fmt.Errorf("%w: shape=%v", ErrInvalidDimension, shape)
	}
	return nil
}

func checkRef(name string, id ID) error {
	if id == IDNone {
		return fmt.Errorf("%w: missing %s", ErrInvalidID, name)
	}
	return nil
}

func checkRecord(cmd RecordCommand) error {
	switch cmd.Type {
	case RecordBegin, RecordEnd:
		return nil
	case RecordViewport:
		if !finite(cmd.Offset[0]) || !finite(cmd.Offset[1]) {
			return fmt.Errorf("%w: viewport offset=%v", ErrInvalidDimension, cmd.Offset)
		}
		// Written as !(x > 0) so NaN fails.
		if !(cmd.Shape[0] > 0) || !(cmd.Shape[1] > 0) || !finite(cmd.Shape[0]) || !finite(cmd.Shape[1]) {
			return fmt.Errorf("%w: viewport shape=%v", ErrInvalidDimension, cmd.Shape)
		}
		return nil
	case RecordDraw:
		if err := checkRef("graphics", cmd.Graphics); err != nil {
			return err
		}
		if cmd.VertexCount == 0 {
			return fmt.Errorf("%w: draw of 0 vertices", ErrInvalidSize)
		}
		return nil
	}
	return fmt.Errorf("%w: record type %s", ErrInvalidRequest, cmd.Type)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
