// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
)

// State is the lifecycle state of a Requester.
type State uint8

const (
	// StateOpen accepts new requests.
	StateOpen State = iota
	// StateClosed is terminal; every operation fails with ErrRequesterClosed.
	StateClosed
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "Open"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Requester records requests into an ordered log and submits the log to a
// Backend. Recording never performs backend I/O: each command-issuing
// method validates its arguments, appends exactly one Request and returns.
//
// Example:
//
//	r := request.New(request.WithBackend(raster.NewBackend()))
//	board, err := r.CreateBoard(800, 600)
//	if err != nil {
//	    return err
//	}
//	res, err := r.Submit(ctx)
//
// The Requester is not safe for concurrent use. All mutating operations
// must be invoked from one owner at a time; callers sharing a Requester
// across goroutines must serialize access themselves.
type Requester struct {
	log        RequestLog
	capacity   int
	state      State
	backend    Backend
	recorder   Recorder
	ids        IDSource
	logger     *slog.Logger
	background color.NRGBA
}

// New creates an open Requester with an empty log.
func New(opts ...Option) *Requester {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Requester{
		log:        make(RequestLog, 0, o.capacity),
		capacity:   o.capacity,
		state:      StateOpen,
		backend:    o.backend,
		recorder:   o.recorder,
		ids:        o.ids,
		logger:     o.logger,
		background: o.background,
	}
	if r.backend != nil {
		propagateLogger(r.backend, r.logger)
	}
	return r
}

// Open creates a Requester executing on the registered backend name.
//
//	import _ "github.com/gogpu/request/backends/raster"
//
//	r, err := request.Open("raster")
func Open(name string, opts ...Option) (*Requester, error) {
	b, err := NewBackend(name)
	if err != nil {
		return nil, err
	}
	return New(append(opts, WithBackend(b))...), nil
}

// State returns the lifecycle state.
func (r *Requester) State() State {
	return r.state
}

// Backend returns the configured backend, or nil.
func (r *Requester) Backend() Backend {
	return r.backend
}

// SetBackend attaches or replaces the backend used by Submit.
func (r *Requester) SetBackend(b Backend) error {
	if r.state == StateClosed {
		return ErrRequesterClosed
	}
	r.backend = b
	if b != nil {
		propagateLogger(b, r.logger)
	}
	return nil
}

// SetLogger replaces the logger and propagates it to the backend.
// Pass nil to restore the silent default.
func (r *Requester) SetLogger(l *slog.Logger) {
	if l == nil {
		l = NopLogger()
	}
	r.logger = l
	if r.backend != nil {
		propagateLogger(r.backend, l)
	}
}

// Len returns the number of pending requests. A closed Requester has none.
func (r *Requester) Len() int {
	return len(r.log)
}

// Requests returns a copy of the pending requests in log order.
// Reading the log does not modify it; a closed Requester returns nil.
func (r *Requester) Requests() RequestLog {
	return r.log.Clone()
}

// Pending is like Requests but fails with ErrRequesterClosed once the
// Requester is closed.
func (r *Requester) Pending() (RequestLog, error) {
	if r.state == StateClosed {
		return nil, ErrRequesterClosed
	}
	return r.log.Clone(), nil
}

// Add validates req and appends it to the log. A zero Version is set to
// the current Version.
func (r *Requester) Add(req Request) error {
	if r.state == StateClosed {
		return ErrRequesterClosed
	}
	if req.Version == 0 {
		req.Version = Version
	}
	if err := Validate(req); err != nil {
		return err
	}
	r.push(req.Clone())
	return nil
}

// Replay appends every request of log. Either all requests are appended or,
// if any fails validation, none is.
func (r *Requester) Replay(log RequestLog) error {
	if r.state == StateClosed {
		return ErrRequesterClosed
	}
	batch := log.Clone()
	for i := range batch {
		if batch[i].Version == 0 {
			batch[i].Version = Version
		}
		if err := Validate(batch[i]); err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}
	}
	for _, req := range batch {
		r.push(req)
	}
	return nil
}

// Reset discards pending requests and starts a new batch.
func (r *Requester) Reset() error {
	if r.state == StateClosed {
		return ErrRequesterClosed
	}
	r.log = r.log[:0]
	return nil
}

// Flush returns the pending requests and clears the log.
func (r *Requester) Flush() (RequestLog, error) {
	if r.state == StateClosed {
		return nil, ErrRequesterClosed
	}
	out := r.log
	r.log = make(RequestLog, 0, r.capacity)
	return out, nil
}

// Submit hands the pending requests to the backend and clears the log.
//
// On success every request executed and the result holds one Outcome per
// request in log order. On failure the error is an *ExecutionError
// (errors.Is(err, ErrBackendExecution)); the result holds the prefix that
// executed and, in Pending, the failing request and everything after it,
// none of which was applied.
//
// If a Recorder is configured it receives the log before execution; a
// recording failure leaves the log pending and nothing is executed.
func (r *Requester) Submit(ctx context.Context) (*SubmissionResult, error) {
	if r.state == StateClosed {
		return nil, ErrRequesterClosed
	}
	if r.backend == nil {
		return nil, ErrNoBackend
	}
	if len(r.log) == 0 {
		return &SubmissionResult{}, nil
	}

	log := r.log
	if r.recorder != nil {
		if err := r.recorder.Record(ctx, log); err != nil {
			return nil, fmt.Errorf("request: record submission: %w", err)
		}
	}
	r.log = make(RequestLog, 0, r.capacity)

	r.logger.Debug("request: submitting", "count", len(log))
	res, err := r.backend.Execute(ctx, log)
	res, err = checkResult(log, res, err)
	if err != nil {
		r.logger.Warn("request: submission failed",
			"index", res.Failed.Index,
			"kind", res.Failed.Kind.String(),
			"executed", len(res.Outcomes),
			"err", err)
		return res, err
	}
	r.logger.Debug("request: submitted", "count", len(res.Outcomes))
	return res, nil
}

// errIncomplete is the cause reported when a backend stops early without
// naming a failure.
var errIncomplete = errors.New("backend stopped without reporting a failure")

// checkResult enforces the backend contract on a result: outcomes never
// exceed the log, a failure always names a request inside the log, and the
// executed prefix ends right before the failing request.
func checkResult(log RequestLog, res *SubmissionResult, err error) (*SubmissionResult, error) {
	if res == nil {
		res = &SubmissionResult{}
	}
	if len(res.Outcomes) > len(log) {
		res.Outcomes = res.Outcomes[:len(log)]
		if err == nil {
			err = fmt.Errorf("backend reported more outcomes than requests (%d)", len(log))
		}
	}
	if err == nil && res.Failed != nil {
		err = res.Failed
	}
	if err == nil && len(res.Outcomes) < len(log) {
		err = errIncomplete
	}
	if err == nil {
		res.Pending = nil
		return res, nil
	}

	var ee *ExecutionError
	if !errors.As(err, &ee) {
		ee = &ExecutionError{Index: len(res.Outcomes), Err: err}
	}
	if ee.Index < 0 || ee.Index >= len(log) {
		ee.Index = min(len(res.Outcomes), len(log)-1)
	}
	ee.Kind = log[ee.Index].Kind
	ee.ID = log[ee.Index].ID
	if len(res.Outcomes) > ee.Index {
		res.Outcomes = res.Outcomes[:ee.Index]
	}
	res.Failed = ee
	res.Pending = log[ee.Index:]
	return res, ee
}

// Close releases the log and, if the backend implements io.Closer, the
// backend. The transition to StateClosed is terminal: Close on a closed
// Requester returns ErrRequesterClosed.
func (r *Requester) Close() error {
	if r.state == StateClosed {
		return ErrRequesterClosed
	}
	r.state = StateClosed
	dropped := len(r.log)
	r.log = nil
	r.logger.Info("request: requester closed", "dropped", dropped)

	if c, ok := r.backend.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("request: close backend: %w", err)
		}
	}
	return nil
}

// push appends a validated request.
func (r *Requester) push(req Request) {
	r.log = append(r.log, req)
	r.logger.Debug("request: queued", "kind", req.Kind.String(), "id", req.ID.String(), "index", len(r.log)-1)
}

// newRequest returns a request of the given kind stamped with the current
// version.
func newRequest(kind Kind, id ID, content Content) Request {
	return Request{Version: Version, Kind: kind, ID: id, Content: content}
}
