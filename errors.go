// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"errors"
	"fmt"
)

// Requester errors.
var (
	// ErrInvalidDimension is returned when a width, height or shape
	// component is not positive.
	ErrInvalidDimension = errors.New("request: invalid dimension")

	// ErrRequesterClosed is returned by any operation on a closed Requester.
	ErrRequesterClosed = errors.New("request: requester closed")

	// ErrBackendExecution is returned by Submit when the backend fails to
	// execute a request. The concrete error is an *ExecutionError.
	ErrBackendExecution = errors.New("request: backend execution failure")

	// ErrInvalidID is returned when a request targets IDNone.
	ErrInvalidID = errors.New("request: invalid id")

	// ErrInvalidSize is returned for empty buffers or uploads.
	ErrInvalidSize = errors.New("request: invalid size")

	// ErrInvalidRequest is returned by Add for requests whose content does
	// not match their kind.
	ErrInvalidRequest = errors.New("request: invalid request")

	// ErrNoBackend is returned by Submit when no backend is configured.
	ErrNoBackend = errors.New("request: no backend")

	// ErrUnknownBackend is returned by NewBackend and Open for names no
	// backend package registered.
	ErrUnknownBackend = errors.New("request: unknown backend")
)

// ExecutionError reports the request a backend failed to execute.
// It matches ErrBackendExecution with errors.Is and unwraps to the
// backend's cause.
type ExecutionError struct {
	// Index is the position of the failing request in the submitted log.
	Index int
	Kind  Kind
	ID    ID
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("request: backend failed on request %d (%s <id %s>): %v", e.Index, e.Kind, e.ID, e.Err)
}

// Unwrap returns the backend's cause.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrBackendExecution.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrBackendExecution
}
