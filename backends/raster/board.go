// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"context"
	"fmt"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/gogpu/request"
	"github.com/gogpu/request/internal/objects"
)

// surface is the state shared by boards and canvases.
type surface struct {
	width      uint32
	height     uint32
	background color.NRGBA
	flags      int
	commands   []request.RecordCommand
}

// board is an offscreen surface backed by a gg context.
type board struct {
	surface
	ctx *gg.Context
}

// canvas is a window surface. Its commands are kept for inspection only.
type canvas struct {
	surface
}

// MaxBoardSize is the largest board width or height, in pixels.
const MaxBoardSize = 16384

func checkBoardSize(width, height uint32) error {
	if width > MaxBoardSize || height > MaxBoardSize {
		return fmt.Errorf("%w: %dx%d board exceeds %d pixels per side", request.ErrInvalidSize, width, height, MaxBoardSize)
	}
	return nil
}

func rgba(c color.NRGBA) gg.RGBA {
	return gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func (b *Backend) createBoard(_ context.Context, req request.Request) error {
	c := req.Content.(request.BoardContent)
	if err := checkBoardSize(c.Width, c.Height); err != nil {
		return err
	}
	bd := &board{
		surface: surface{width: c.Width, height: c.Height, background: c.Background, flags: req.Flags},
		ctx:     gg.NewContext(int(c.Width), int(c.Height)),
	}
	bd.ctx.ClearWithColor(rgba(bd.background))
	if err := b.objects.Add(req.ID, request.ObjectBoard, bd); err != nil {
		_ = bd.ctx.Close()
		return err
	}
	b.logger.Debug("raster: board created", "id", req.ID.String(), "width", c.Width, "height", c.Height)
	return nil
}

func (b *Backend) resizeBoard(_ context.Context, req request.Request) error {
	bd, err := objects.Get[*board](b.objects, req.ID, request.ObjectBoard)
	if err != nil {
		return err
	}
	c := req.Content.(request.BoardContent)
	if err := checkBoardSize(c.Width, c.Height); err != nil {
		return err
	}
	if err := bd.ctx.Resize(int(c.Width), int(c.Height)); err != nil {
		return err
	}
	bd.width, bd.height = c.Width, c.Height
	bd.ctx.ClearWithColor(rgba(bd.background))
	return nil
}

// setBackground applies to boards and canvases. The new color takes effect
// at the next UpdateBoard.
func (b *Backend) setBackground(_ context.Context, req request.Request) error {
	s, err := b.surfaceOf(req.ID)
	if err != nil {
		return err
	}
	s.background = req.Content.(request.BoardContent).Background
	return nil
}

func (b *Backend) deleteBoard(_ context.Context, req request.Request) error {
	bd, err := objects.Get[*board](b.objects, req.ID, request.ObjectBoard)
	if err != nil {
		return err
	}
	if _, err := b.objects.Delete(req.ID); err != nil {
		return err
	}
	return bd.ctx.Close()
}

func (b *Backend) createCanvas(_ context.Context, req request.Request) error {
	c := req.Content.(request.CanvasContent)
	if err := checkBoardSize(c.Width, c.Height); err != nil {
		return err
	}
	cv := &canvas{surface{width: c.Width, height: c.Height, background: c.Background, flags: req.Flags}}
	return b.objects.Add(req.ID, request.ObjectCanvas, cv)
}

func (b *Backend) deleteCanvas(_ context.Context, req request.Request) error {
	if _, err := b.objects.Get(req.ID, request.ObjectCanvas); err != nil {
		return err
	}
	_, err := b.objects.Delete(req.ID)
	return err
}

// surfaceOf returns the board or canvas mapped to id.
func (b *Backend) surfaceOf(id request.ID) (*surface, error) {
	v, object, ok := b.objects.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: board or canvas %s", ErrNotFound, id)
	}
	switch s := v.(type) {
	case *board:
		return &s.surface, nil
	case *canvas:
		return &s.surface, nil
	}
	return nil, fmt.Errorf("%w: %s is a %s, not a board or canvas", ErrWrongType, id, object)
}

// record appends a command to a board or canvas command list. Begin starts
// a new list.
func (b *Backend) record(_ context.Context, req request.Request) error {
	s, err := b.surfaceOf(req.ID)
	if err != nil {
		return err
	}
	cmd := req.Content.(request.RecordContent).Command
	if cmd.Type == request.RecordBegin {
		s.commands = s.commands[:0]
	}
	s.commands = append(s.commands, cmd)
	return nil
}

// Commands returns a copy of the command list recorded for a board or
// canvas.
func (b *Backend) Commands(id request.ID) ([]request.RecordCommand, error) {
	s, err := b.surfaceOf(id)
	if err != nil {
		return nil, err
	}
	return append([]request.RecordCommand(nil), s.commands...), nil
}

// updateBoard clears the board to its background and replays its command
// list.
func (b *Backend) updateBoard(ctx context.Context, req request.Request) error {
	bd, err := objects.Get[*board](b.objects, req.ID, request.ObjectBoard)
	if err != nil {
		return err
	}

	dc := bd.ctx
	dc.ResetClip()
	dc.ClearWithColor(rgba(bd.background))
	vp := viewport{w: float64(bd.width), h: float64(bd.height)}

	for i, cmd := range bd.commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch cmd.Type {
		case request.RecordViewport:
			vp = viewport{
				x: float64(cmd.Offset[0]), y: float64(cmd.Offset[1]),
				w: float64(cmd.Shape[0]), h: float64(cmd.Shape[1]),
			}
			dc.ResetClip()
			dc.ClipRect(vp.x, vp.y, vp.w, vp.h)
		case request.RecordDraw:
			if err := b.draw(dc, vp, req.ID, cmd); err != nil {
				return fmt.Errorf("command %d: %w", i, err)
			}
		}
	}
	dc.ResetClip()
	b.logger.Debug("raster: board updated", "id", req.ID.String(), "commands", len(bd.commands))
	return nil
}
