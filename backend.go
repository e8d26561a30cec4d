// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import "context"

// Backend is the interface that all execution backends must implement.
// A backend receives a RequestLog and materializes its effects (boards,
// buffers, draw calls) in log order.
//
// Backends are created directly or via the registry using NewBackend(name)
// and registered via Register() in their init() functions.
//
// # Implementation Contract
//
// Each backend must:
//  1. Execute requests strictly in log order
//  2. Stop at the first failing request (fail-fast); nothing after the
//     failing entry may be applied
//  3. Return one Outcome per executed request, in log order
//  4. Return a non-nil error when a request fails, ideally an
//     *ExecutionError naming the failing index
//
// Backends may additionally implement SetLogger(*slog.Logger) to receive the
// Requester's logger, and io.Closer to release resources when the Requester
// is closed.
type Backend interface {
	// Execute runs the requests of log in order.
	// The result must be non-nil whenever at least one request succeeded.
	Execute(ctx context.Context, log RequestLog) (*SubmissionResult, error)
}

// Recorder receives each submitted log before execution.
// The journal package provides a persistent implementation.
type Recorder interface {
	Record(ctx context.Context, log RequestLog) error
}

// Outcome describes one successfully executed request.
type Outcome struct {
	// Index is the position of the request in the submitted log.
	Index int
	Kind  Kind
	ID    ID
}

// SubmissionResult reports the execution of a submitted log.
type SubmissionResult struct {
	// Outcomes holds one entry per executed request, in log order.
	// On failure it is the prefix that succeeded.
	Outcomes []Outcome

	// Failed is the failing request, or nil if the whole log executed.
	Failed *ExecutionError

	// Pending holds the failing request and every request after it.
	// It is empty on success.
	Pending RequestLog
}

// OK reports whether every request executed.
func (r *SubmissionResult) OK() bool {
	return r != nil && r.Failed == nil
}

// Executed returns the number of requests that executed.
func (r *SubmissionResult) Executed() int {
	if r == nil {
		return 0
	}
	return len(r.Outcomes)
}
