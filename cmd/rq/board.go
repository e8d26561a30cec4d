// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/urfave/cli"

	"github.com/gogpu/request"
	"github.com/gogpu/request/backends/raster"
	"github.com/gogpu/request/journal"
)

func boardCmd() cli.Command {
	return cli.Command{
		Name:      "board",
		Usage:     "Draw a demo triangle on a board and export it",
		UsageText: "rq board [-o FILE] [-j FILE] [--width N] [--height N]",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "output, o", Usage: "write the board to `FILE` (.png, .bmp, .tiff)"},
			cli.StringFlag{Name: "journal, j", Usage: "record the submission in journal `FILE`"},
			cli.IntFlag{Name: "width", Usage: "board width in pixels"},
			cli.IntFlag{Name: "height", Usage: "board height in pixels"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			if w := c.Int("width"); w != 0 {
				e.cfg.Board.Width = w
			}
			if h := c.Int("height"); h != 0 {
				e.cfg.Board.Height = h
			}
			output := c.String("output")
			if output == "" {
				output = e.cfg.Output
			}
			return e.board(context.Background(), e.journalPath(c), output)
		},
	}
}

func (e *env) board(ctx context.Context, journalPath, output string) error {
	opts := []request.Option{request.WithLogger(e.logger)}
	if journalPath != "" {
		j, err := journal.Open(journalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		j.SetLogger(e.logger)
		opts = append(opts, request.WithRecorder(j))
	}

	r, err := request.Open(e.cfg.Backend, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	board, err := e.drawTriangle(r)
	if err != nil {
		return err
	}
	n := r.Len()
	if _, err := r.Submit(ctx); err != nil {
		return err
	}
	e.printer.Fprintf(e.out, "submitted %d requests to %s\n", n, e.cfg.Backend)

	return e.export(r.Backend(), []request.ID{board}, output)
}

// drawTriangle records a board with one colored triangle.
func (e *env) drawTriangle(r *request.Requester) (request.ID, error) {
	bg, err := e.cfg.Background()
	if err != nil {
		return request.IDNone, err
	}
	vertices := request.EncodeVertices([]request.Vertex{
		{Pos: [3]float32{-0.8, 0.8, 0}, Color: [4]uint8{230, 60, 40, 255}},
		{Pos: [3]float32{0.8, 0.8, 0}, Color: [4]uint8{230, 60, 40, 255}},
		{Pos: [3]float32{0, -0.8, 0}, Color: [4]uint8{230, 60, 40, 255}},
	})

	board, err := r.CreateBoard(e.cfg.Board.Width, e.cfg.Board.Height, request.WithBackground(bg))
	if err != nil {
		return request.IDNone, err
	}
	dat, err := r.CreateDat(gputypes.BufferUsageVertex, uint64(len(vertices)), 0)
	if err != nil {
		return request.IDNone, err
	}
	graphics, err := r.CreateGraphics(board, request.GraphicsTriangleList, 0)
	if err != nil {
		return request.IDNone, err
	}
	for _, step := range []func() error{
		func() error { return r.UploadDat(dat, 0, vertices) },
		func() error { return r.SetVertex(graphics, dat) },
		func() error { return r.RecordBegin(board) },
		func() error { return r.RecordDraw(board, graphics, 0, 3) },
		func() error { return r.RecordEnd(board) },
		func() error { return r.UpdateBoard(board) },
	} {
		if err := step(); err != nil {
			return request.IDNone, err
		}
	}
	return board, nil
}

// export writes boards to files derived from output. A single board is
// written to output; several get an index before the extension. Backends
// without pixels are skipped.
func (e *env) export(b request.Backend, boards []request.ID, output string) error {
	rb, ok := b.(*raster.Backend)
	if !ok || output == "" {
		e.logger.Info("rq: nothing to export", "backend", e.cfg.Backend)
		return nil
	}
	for i, id := range boards {
		path := output
		if len(boards) > 1 {
			ext := filepath.Ext(output)
			path = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(output, ext), i, ext)
		}
		if err := rb.Export(id, path); err != nil {
			return err
		}
		fmt.Fprintln(e.out, "wrote", path)
	}
	return nil
}
