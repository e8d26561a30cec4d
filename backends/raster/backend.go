// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster provides a CPU backend that executes request logs with
// gg.Context.
//
// Boards are gg contexts cleared to their background color. Record
// requests build a per-board command list that UpdateBoard replays:
// viewports map normalized device coordinates to pixels and draws
// rasterize the vertices of the graphics' vertex dat as points, lines or
// triangles. Dats, textures and samplers are kept in memory with the same
// bounds checks a GPU upload would apply.
//
// # Limitations
//
// Vertices are flat shaded with the color of the first vertex of each
// primitive. Custom graphics have their WGSL compiled and validated, then
// rasterize as triangle lists with the default vertex layout. Canvas
// command lists are stored but never presented. Dats and textures are
// limited to MaxBufferSize bytes and boards to MaxBoardSize pixels per
// side.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/request/backends/raster"
//
//	// Create via registry
//	r, _ := request.Open("raster")
//
//	// Or create directly
//	b := raster.NewBackend()
//	r := request.New(request.WithBackend(b))
//
//	board, _ := r.CreateBoard(800, 600)
//	r.Submit(ctx)
//	b.Export(board, "board.png")
package raster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gogpu/request"
	"github.com/gogpu/request/internal/objects"
	"github.com/gogpu/request/router"
)

func init() {
	request.Register("raster", func() request.Backend {
		return NewBackend()
	})
}

// Backend errors.
var (
	// ErrNotFound is returned when a request references an unknown object.
	ErrNotFound = objects.ErrNotFound

	// ErrWrongType is returned when a request references an object of
	// another type, such as uploading into a board.
	ErrWrongType = objects.ErrWrongType

	// ErrOutOfBounds is returned for uploads and draws outside an object.
	ErrOutOfBounds = errors.New("raster: out of bounds")

	// ErrUnsupportedFormat is returned for texture formats without a
	// known texel size.
	ErrUnsupportedFormat = errors.New("raster: unsupported texture format")
)

// Backend executes request logs on the CPU.
// It implements request.Backend and io.Closer.
//
// Backend is not safe for concurrent use.
type Backend struct {
	router  *router.Router
	objects *objects.Map
	logger  *slog.Logger
}

// Ensure Backend implements request.Backend.
var _ request.Backend = (*Backend)(nil)

// NewBackend creates a raster backend with no objects.
func NewBackend() *Backend {
	b := &Backend{
		router:  router.New(),
		objects: objects.New(),
		logger:  request.NopLogger(),
	}
	b.routes()
	return b
}

// routes registers one handler per supported request kind.
func (b *Backend) routes() {
	rt := b.router

	rt.Route(request.KindCreateBoard, b.createBoard)
	rt.Route(request.KindUpdateBoard, b.updateBoard)
	rt.Route(request.KindResizeBoard, b.resizeBoard)
	rt.Route(request.KindSetBackground, b.setBackground)
	rt.Route(request.KindDeleteBoard, b.deleteBoard)

	rt.Route(request.KindCreateCanvas, b.createCanvas)
	rt.Route(request.KindDeleteCanvas, b.deleteCanvas)

	rt.Route(request.KindCreateDat, b.createDat)
	rt.Route(request.KindResizeDat, b.resizeDat)
	rt.Route(request.KindUploadDat, b.uploadDat)
	rt.Route(request.KindDeleteDat, b.deleteObject(request.ObjectDat))

	rt.Route(request.KindCreateTex, b.createTex)
	rt.Route(request.KindResizeTex, b.resizeTex)
	rt.Route(request.KindUploadTex, b.uploadTex)
	rt.Route(request.KindDeleteTex, b.deleteObject(request.ObjectTex))

	rt.Route(request.KindCreateSampler, b.createSampler)
	rt.Route(request.KindDeleteSampler, b.deleteObject(request.ObjectSampler))

	rt.Route(request.KindCreateGraphics, b.createGraphics)
	rt.Route(request.KindSetVertex, b.setVertex)
	rt.Route(request.KindBindDat, b.bindDat)
	rt.Route(request.KindBindTex, b.bindTex)
	rt.Route(request.KindDeleteGraphics, b.deleteObject(request.ObjectGraphics))

	rt.Route(request.KindRecord, b.record)
}

// SetLogger sets the logger. Nil restores the silent default.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = request.NopLogger()
	}
	b.logger = l
	b.router.SetLogger(l)
}

// Execute implements request.Backend.
func (b *Backend) Execute(ctx context.Context, log request.RequestLog) (*request.SubmissionResult, error) {
	res, err := b.router.Execute(ctx, log)
	b.logger.Debug("raster: executed", "requests", len(log), "ok", res.Executed())
	return res, err
}

// Count returns the number of live objects of the given type.
func (b *Backend) Count(object request.Object) int {
	return b.objects.Count(object)
}

// Close releases every board and drops all objects.
func (b *Backend) Close() error {
	var errs []error
	b.objects.Each(func(_ request.ID, object request.Object, v any) {
		if object == request.ObjectBoard {
			errs = append(errs, v.(*board).ctx.Close())
		}
	})
	b.objects = objects.New()
	return errors.Join(errs...)
}

// deleteObject returns a handler removing an object of the given type.
func (b *Backend) deleteObject(object request.Object) router.Handler {
	return func(_ context.Context, req request.Request) error {
		if _, err := b.objects.Get(req.ID, object); err != nil {
			return err
		}
		_, err := b.objects.Delete(req.ID)
		return err
	}
}
