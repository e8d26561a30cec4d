// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package request records rendering requests and submits them to a backend.
//
// # Overview
//
// A [Requester] accumulates client-issued requests (create a board, upload a
// buffer, record a draw call...) into an ordered [RequestLog]. Recording
// never touches the backend: requests are queued, not executed. [Requester.Submit]
// hands the log to a [Backend] which executes it in order and stops at the
// first failure.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/request"
//	    "github.com/gogpu/request/backends/raster"
//	)
//
//	r := request.New(request.WithBackend(raster.NewBackend()))
//	board, err := r.CreateBoard(800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := r.Submit(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Requests
//
// A [Request] is an immutable value: a [Kind] (action and object, e.g.
// CreateBoard), the [ID] of the object it creates or targets, flags and a
// kind-specific [Content]. IDs are issued by the Requester when an object is
// created, so later requests can reference objects that do not exist yet on
// the backend.
//
// The vocabulary covers boards (offscreen surfaces), canvases, dats (data
// buffers), textures, samplers, graphics pipelines, resource bindings and
// command-buffer records (begin, viewport, draw, end).
//
// # Backends
//
// Backends are registered using the database/sql driver pattern. Import a
// backend package with a blank identifier to register it:
//
//	import _ "github.com/gogpu/request/backends/raster" // "raster"
//	import _ "github.com/gogpu/request/backends/null"   // "null"
//
//	b, err := request.NewBackend("raster")
//
// # Submission
//
// Submission is fail-fast. On failure the returned error is an
// [*ExecutionError] naming the failing request; [SubmissionResult] holds
// the outcomes of the prefix that executed and the pending tail.
//
// # Logging
//
// Logging uses log/slog. By default a Requester produces no output; inject
// a logger with [WithLogger]. The logger is propagated to backends that
// implement SetLogger(*slog.Logger).
//
// # Thread Safety
//
// Requester is NOT safe for concurrent use. The backend registry is.
package request
