// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/request"
	"github.com/gogpu/request/internal/objects"
	"github.com/gogpu/request/shader"
)

// MaxBufferSize is the largest dat or texture, in bytes, the backend
// allocates.
const MaxBufferSize = 1 << 30

// bufferSize returns n*size as an allocation length. Products that
// overflow or exceed MaxBufferSize fail with request.ErrInvalidSize.
func bufferSize(n, size uint64) (int, error) {
	hi, lo := bits.Mul64(n, size)
	if hi != 0 || lo > MaxBufferSize {
		return 0, fmt.Errorf("%w: %d×%d bytes exceeds the %d byte limit", request.ErrInvalidSize, n, size, MaxBufferSize)
	}
	return int(lo), nil
}

// dat is a byte buffer.
type dat struct {
	usage gputypes.BufferUsage
	data  []byte
}

// tex holds tightly packed texel bytes, x fastest then y then z.
type tex struct {
	dims   gputypes.TextureDimension
	format gputypes.TextureFormat
	shape  [3]uint32
	texel  int
	data   []byte
}

type sampler struct {
	filter gputypes.FilterMode
	mode   gputypes.AddressMode
}

type texBinding struct {
	tex     request.ID
	sampler request.ID
}

// graphics is a drawable pipeline attached to a board or canvas.
type graphics struct {
	parent request.ID
	typ    request.GraphicsType
	vertex request.ID
	dats   map[uint32]request.ID
	texs   map[uint32]texBinding
	spirv  []uint32
}

// --------------------------------------------------------------------------
// Dat
// --------------------------------------------------------------------------

func (b *Backend) createDat(_ context.Context, req request.Request) error {
	c := req.Content.(request.DatContent)
	n, err := bufferSize(c.Size, 1)
	if err != nil {
		return err
	}
	return b.objects.Add(req.ID, request.ObjectDat, &dat{usage: c.Usage, data: make([]byte, n)})
}

// resizeDat reallocates the buffer, keeping the bytes that fit.
func (b *Backend) resizeDat(_ context.Context, req request.Request) error {
	d, err := objects.Get[*dat](b.objects, req.ID, request.ObjectDat)
	if err != nil {
		return err
	}
	n, err := bufferSize(req.Content.(request.DatContent).Size, 1)
	if err != nil {
		return err
	}
	data := make([]byte, n)
	copy(data, d.data)
	d.data = data
	return nil
}

func (b *Backend) uploadDat(_ context.Context, req request.Request) error {
	d, err := objects.Get[*dat](b.objects, req.ID, request.ObjectDat)
	if err != nil {
		return err
	}
	c := req.Content.(request.DatUploadContent)
	end := c.Offset + uint64(len(c.Data))
	if end < c.Offset || end > uint64(len(d.data)) {
		return fmt.Errorf("%w: upload [%d, %d) into dat of %d bytes", ErrOutOfBounds, c.Offset, end, len(d.data))
	}
	copy(d.data[c.Offset:], c.Data)
	return nil
}

// Dat returns a copy of the contents of a dat.
func (b *Backend) Dat(id request.ID) ([]byte, error) {
	d, err := objects.Get[*dat](b.objects, id, request.ObjectDat)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), d.data...), nil
}

// --------------------------------------------------------------------------
// Tex
// --------------------------------------------------------------------------

// TexelSize returns the size in bytes of one texel of format, or 0 for
// formats the backend cannot store (depth, stencil, compressed).
func TexelSize(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatR8Unorm, gputypes.TextureFormatR8Snorm,
		gputypes.TextureFormatR8Uint, gputypes.TextureFormatR8Sint:
		return 1
	case gputypes.TextureFormatR16Unorm, gputypes.TextureFormatR16Snorm,
		gputypes.TextureFormatR16Uint, gputypes.TextureFormatR16Sint, gputypes.TextureFormatR16Float,
		gputypes.TextureFormatRG8Unorm, gputypes.TextureFormatRG8Snorm,
		gputypes.TextureFormatRG8Uint, gputypes.TextureFormatRG8Sint:
		return 2
	case gputypes.TextureFormatR32Float, gputypes.TextureFormatR32Uint, gputypes.TextureFormatR32Sint,
		gputypes.TextureFormatRG16Unorm, gputypes.TextureFormatRG16Snorm,
		gputypes.TextureFormatRG16Uint, gputypes.TextureFormatRG16Sint, gputypes.TextureFormatRG16Float,
		gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatRGBA8Snorm, gputypes.TextureFormatRGBA8Uint, gputypes.TextureFormatRGBA8Sint,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatRGB10A2Uint, gputypes.TextureFormatRGB10A2Unorm,
		gputypes.TextureFormatRG11B10Ufloat, gputypes.TextureFormatRGB9E5Ufloat:
		return 4
	case gputypes.TextureFormatRG32Float, gputypes.TextureFormatRG32Uint, gputypes.TextureFormatRG32Sint,
		gputypes.TextureFormatRGBA16Unorm, gputypes.TextureFormatRGBA16Snorm,
		gputypes.TextureFormatRGBA16Uint, gputypes.TextureFormatRGBA16Sint, gputypes.TextureFormatRGBA16Float:
		return 8
	case gputypes.TextureFormatRGBA32Float, gputypes.TextureFormatRGBA32Uint, gputypes.TextureFormatRGBA32Sint:
		return 16
	}
	return 0
}

// texBytes returns the byte size of a texture of the given shape.
func texBytes(shape [3]uint32, texel int) (int, error) {
	// Two uint32 factors cannot overflow uint64.
	plane := uint64(shape[0]) * uint64(shape[1])
	hi, n := bits.Mul64(plane, uint64(shape[2]))
	if hi != 0 {
		return 0, fmt.Errorf("%w: texture of shape %v", request.ErrInvalidSize, shape)
	}
	return bufferSize(n, uint64(texel))
}

// checkDims rejects shapes that use axes the texture dimension lacks.
func checkDims(dims gputypes.TextureDimension, shape [3]uint32) error {
	switch dims {
	case gputypes.TextureDimension1D:
		if shape[1] != 1 || shape[2] != 1 {
			return fmt.Errorf("%w: 1D texture of shape %v", request.ErrInvalidDimension, shape)
		}
	case gputypes.TextureDimension2D:
		if shape[2] != 1 {
			return fmt.Errorf("%w: 2D texture of shape %v", request.ErrInvalidDimension, shape)
		}
	}
	return nil
}

func (b *Backend) createTex(_ context.Context, req request.Request) error {
	c := req.Content.(request.TexContent)
	size := TexelSize(c.Format)
	if size == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.Format)
	}
	if err := checkDims(c.Dims, c.Shape); err != nil {
		return err
	}
	n, err := texBytes(c.Shape, size)
	if err != nil {
		return err
	}
	t := &tex{
		dims:   c.Dims,
		format: c.Format,
		shape:  c.Shape,
		texel:  size,
		data:   make([]byte, n),
	}
	return b.objects.Add(req.ID, request.ObjectTex, t)
}

// resizeTex reallocates the texture. Contents are discarded.
func (b *Backend) resizeTex(_ context.Context, req request.Request) error {
	t, err := objects.Get[*tex](b.objects, req.ID, request.ObjectTex)
	if err != nil {
		return err
	}
	shape := req.Content.(request.TexContent).Shape
	if err := checkDims(t.dims, shape); err != nil {
		return err
	}
	n, err := texBytes(shape, t.texel)
	if err != nil {
		return err
	}
	t.shape = shape
	t.data = make([]byte, n)
	return nil
}

// uploadTex copies a region of texels. The region must lie inside the
// texture and data must hold exactly the region's texels.
func (b *Backend) uploadTex(_ context.Context, req request.Request) error {
	t, err := objects.Get[*tex](b.objects, req.ID, request.ObjectTex)
	if err != nil {
		return err
	}
	c := req.Content.(request.TexUploadContent)
	for axis := range 3 {
		if uint64(c.Offset[axis])+uint64(c.Shape[axis]) > uint64(t.shape[axis]) {
			return fmt.Errorf("%w: region offset %v shape %v in texture of shape %v",
				ErrOutOfBounds, c.Offset, c.Shape, t.shape)
		}
	}
	// The region lies inside the texture, so its size is within limits.
	want, err := texBytes(c.Shape, t.texel)
	if err != nil {
		return err
	}
	if len(c.Data) != want {
		return fmt.Errorf("%w: %d bytes for a region of %d bytes", request.ErrInvalidSize, len(c.Data), want)
	}

	row := int(c.Shape[0]) * t.texel
	src := 0
	for z := c.Offset[2]; z < c.Offset[2]+c.Shape[2]; z++ {
		for y := c.Offset[1]; y < c.Offset[1]+c.Shape[1]; y++ {
			dst := ((int(z)*int(t.shape[1])+int(y))*int(t.shape[0]) + int(c.Offset[0])) * t.texel
			copy(t.data[dst:dst+row], c.Data[src:src+row])
			src += row
		}
	}
	return nil
}

// Tex returns a copy of the texel bytes of a texture and its shape.
func (b *Backend) Tex(id request.ID) ([]byte, [3]uint32, error) {
	t, err := objects.Get[*tex](b.objects, id, request.ObjectTex)
	if err != nil {
		return nil, [3]uint32{}, err
	}
	return append([]byte(nil), t.data...), t.shape, nil
}

// --------------------------------------------------------------------------
// Sampler
// --------------------------------------------------------------------------

func (b *Backend) createSampler(_ context.Context, req request.Request) error {
	c := req.Content.(request.SamplerContent)
	return b.objects.Add(req.ID, request.ObjectSampler, &sampler{filter: c.Filter, mode: c.Mode})
}

// --------------------------------------------------------------------------
// Graphics
// --------------------------------------------------------------------------

func (b *Backend) createGraphics(_ context.Context, req request.Request) error {
	c := req.Content.(request.GraphicsContent)
	if _, err := b.surfaceOf(c.Parent); err != nil {
		return err
	}
	g := &graphics{
		parent: c.Parent,
		typ:    c.Type,
		dats:   make(map[uint32]request.ID),
		texs:   make(map[uint32]texBinding),
	}
	if c.Type == request.GraphicsCustom {
		words, err := shader.Compile(c.Shader)
		if err != nil {
			return err
		}
		g.spirv = words
	}
	return b.objects.Add(req.ID, request.ObjectGraphics, g)
}

func (b *Backend) setVertex(_ context.Context, req request.Request) error {
	g, err := objects.Get[*graphics](b.objects, req.ID, request.ObjectGraphics)
	if err != nil {
		return err
	}
	id := req.Content.(request.VertexContent).Dat
	if _, err := b.objects.Get(id, request.ObjectDat); err != nil {
		return err
	}
	g.vertex = id
	return nil
}

func (b *Backend) bindDat(_ context.Context, req request.Request) error {
	g, err := objects.Get[*graphics](b.objects, req.ID, request.ObjectGraphics)
	if err != nil {
		return err
	}
	c := req.Content.(request.BindDatContent)
	if _, err := b.objects.Get(c.Dat, request.ObjectDat); err != nil {
		return err
	}
	g.dats[c.Slot] = c.Dat
	return nil
}

func (b *Backend) bindTex(_ context.Context, req request.Request) error {
	g, err := objects.Get[*graphics](b.objects, req.ID, request.ObjectGraphics)
	if err != nil {
		return err
	}
	c := req.Content.(request.BindTexContent)
	if _, err := b.objects.Get(c.Tex, request.ObjectTex); err != nil {
		return err
	}
	if _, err := b.objects.Get(c.Sampler, request.ObjectSampler); err != nil {
		return err
	}
	g.texs[c.Slot] = texBinding{tex: c.Tex, sampler: c.Sampler}
	return nil
}

// SPIRV returns the compiled module of a custom graphics pipeline, or nil
// for builtin graphics types.
func (b *Backend) SPIRV(id request.ID) ([]uint32, error) {
	g, err := objects.Get[*graphics](b.objects, id, request.ObjectGraphics)
	if err != nil {
		return nil, err
	}
	return g.spirv, nil
}
