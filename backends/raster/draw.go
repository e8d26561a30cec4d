// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/request"
	"github.com/gogpu/request/internal/objects"
)

// PointRadius is the radius in pixels of rasterized points.
const PointRadius = 1.5

// LineWidth is the width in pixels of rasterized lines.
const LineWidth = 1.0

// viewport is the pixel rectangle normalized device coordinates map to.
type viewport struct {
	x, y, w, h float64
}

// project maps a vertex position from normalized device coordinates
// (x right, y down, both in [-1, 1]) to pixels.
func (vp viewport) project(pos [3]float32) (float64, float64) {
	return vp.x + (float64(pos[0])+1)/2*vp.w,
		vp.y + (float64(pos[1])+1)/2*vp.h
}

// draw rasterizes cmd.VertexCount vertices of the command's graphics,
// which must belong to target.
func (b *Backend) draw(dc *gg.Context, vp viewport, target request.ID, cmd request.RecordCommand) error {
	g, err := objects.Get[*graphics](b.objects, cmd.Graphics, request.ObjectGraphics)
	if err != nil {
		return err
	}
	if g.parent != target {
		return fmt.Errorf("%w: graphics %s belongs to %s, not %s", ErrWrongType, cmd.Graphics, g.parent, target)
	}
	if g.vertex == request.IDNone {
		return fmt.Errorf("%w: graphics %s has no vertex dat", ErrNotFound, cmd.Graphics)
	}
	d, err := objects.Get[*dat](b.objects, g.vertex, request.ObjectDat)
	if err != nil {
		return err
	}
	all, err := request.DecodeVertices(d.data[:len(d.data)-len(d.data)%request.VertexSize])
	if err != nil {
		return err
	}
	end := uint64(cmd.FirstVertex) + uint64(cmd.VertexCount)
	if end > uint64(len(all)) {
		return fmt.Errorf("%w: vertices [%d, %d) of %d", ErrOutOfBounds, cmd.FirstVertex, end, len(all))
	}
	vs := all[cmd.FirstVertex:end]

	switch g.typ {
	case request.GraphicsPoint:
		for _, v := range vs {
			x, y := vp.project(v.Pos)
			dc.DrawPoint(x, y, PointRadius)
			if err := fill(dc, v); err != nil {
				return err
			}
		}
	case request.GraphicsLineList:
		for i := 0; i+1 < len(vs); i += 2 {
			if err := line(dc, vp, vs[i], vs[i+1]); err != nil {
				return err
			}
		}
	case request.GraphicsLineStrip:
		for i := 0; i+1 < len(vs); i++ {
			if err := line(dc, vp, vs[i], vs[i+1]); err != nil {
				return err
			}
		}
	case request.GraphicsTriangleList, request.GraphicsCustom:
		for i := 0; i+2 < len(vs); i += 3 {
			if err := triangle(dc, vp, vs[i], vs[i+1], vs[i+2]); err != nil {
				return err
			}
		}
	case request.GraphicsTriangleStrip:
		for i := 0; i+2 < len(vs); i++ {
			if err := triangle(dc, vp, vs[i], vs[i+1], vs[i+2]); err != nil {
				return err
			}
		}
	case request.GraphicsTriangleFan:
		for i := 1; i+1 < len(vs); i++ {
			if err := triangle(dc, vp, vs[0], vs[i], vs[i+1]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("raster: cannot draw graphics type %s", g.typ)
	}
	return nil
}

func setColor(dc *gg.Context, v request.Vertex) {
	dc.SetRGBA(float64(v.Color[0])/255, float64(v.Color[1])/255, float64(v.Color[2])/255, float64(v.Color[3])/255)
}

func fill(dc *gg.Context, v request.Vertex) error {
	setColor(dc, v)
	return dc.Fill()
}

func line(dc *gg.Context, vp viewport, a, c request.Vertex) error {
	x1, y1 := vp.project(a.Pos)
	x2, y2 := vp.project(c.Pos)
	setColor(dc, a)
	dc.SetLineWidth(LineWidth)
	dc.DrawLine(x1, y1, x2, y2)
	return dc.Stroke()
}

func triangle(dc *gg.Context, vp viewport, a, c, d request.Vertex) error {
	x1, y1 := vp.project(a.Pos)
	x2, y2 := vp.project(c.Pos)
	x3, y3 := vp.project(d.Pos)
	dc.MoveTo(x1, y1)
	dc.LineTo(x2, y2)
	dc.LineTo(x3, y3)
	dc.ClosePath()
	return fill(dc, a)
}
