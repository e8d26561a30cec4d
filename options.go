// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"image/color"
	"log/slog"
)

// Option configures a Requester during creation.
//
// Example:
//
//	// Record only; attach a backend later
//	r := request.New()
//
//	// Raster execution with debug logging
//	r := request.New(
//	    request.WithBackend(raster.NewBackend()),
//	    request.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
//	)
type Option func(*options)

// options holds optional configuration for Requester creation.
type options struct {
	backend    Backend
	logger     *slog.Logger
	ids        IDSource
	recorder   Recorder
	capacity   int
	background color.NRGBA
}

// defaultCapacity matches the initial request array size of a new batch.
const defaultCapacity = 64

// defaultOptions returns the default requester options.
func defaultOptions() options {
	return options{
		logger:     NopLogger(),
		ids:        RandomIDs{},
		capacity:   defaultCapacity,
		background: color.NRGBA{A: 255},
	}
}

// WithBackend sets the backend that Submit executes requests on.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithLogger sets the logger used by the Requester and propagated to its
// backend. A nil logger keeps the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIDSource sets the source of object IDs. The default issues random
// 64-bit IDs.
//
//	r := request.New(request.WithIDSource(&request.SequentialIDs{}))
func WithIDSource(ids IDSource) Option {
	return func(o *options) {
		if ids != nil {
			o.ids = ids
		}
	}
}

// WithRecorder sets a Recorder that receives every submitted log before it
// is executed, for example a journal.
func WithRecorder(rec Recorder) Option {
	return func(o *options) {
		o.recorder = rec
	}
}

// WithCapacity preallocates room for n requests.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithDefaultBackground sets the background color used by CreateBoard and
// CreateCanvas when no WithBackground option is given. The default is
// opaque black.
func WithDefaultBackground(c color.NRGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// BoardOption configures a CreateBoard or CreateCanvas request.
type BoardOption func(*boardParams)

type boardParams struct {
	background color.NRGBA
	flags      int
}

// WithBackground sets the clear color of the new board or canvas.
func WithBackground(c color.NRGBA) BoardOption {
	return func(p *boardParams) {
		p.background = c
	}
}

// WithFlags sets backend-specific creation flags.
func WithFlags(flags int) BoardOption {
	return func(p *boardParams) {
		p.flags = flags
	}
}
