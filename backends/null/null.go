// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package null provides a backend that accepts requests without rendering.
//
// It is useful to exercise request logs without a rendering target, and in
// tests to observe what a Requester submits.
//
//	import _ "github.com/gogpu/request/backends/null"
//
//	r, err := request.Open("null")
package null

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gogpu/request"
)

func init() {
	request.Register("null", func() request.Backend {
		return NewBackend()
	})
}

// Backend executes every request as a no-op, counting executions per kind.
// Backend is safe for concurrent use.
type Backend struct {
	mu     sync.Mutex
	counts map[request.Kind]int
	last   request.RequestLog
	fail   map[request.Kind]error
	logger *slog.Logger
}

// Ensure Backend implements request.Backend.
var _ request.Backend = (*Backend)(nil)

// NewBackend creates a null backend.
func NewBackend() *Backend {
	return &Backend{
		counts: make(map[request.Kind]int),
		fail:   make(map[request.Kind]error),
		logger: request.NopLogger(),
	}
}

// SetLogger sets the logger. Nil restores the silent default.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = request.NopLogger()
	}
	b.mu.Lock()
	b.logger = l
	b.mu.Unlock()
}

// FailOn makes every subsequent request of kind fail with err.
// A nil err clears the failure.
func (b *Backend) FailOn(kind request.Kind, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.fail, kind)
		return
	}
	b.fail[kind] = err
}

// Execute implements request.Backend.
func (b *Backend) Execute(ctx context.Context, log request.RequestLog) (*request.SubmissionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = log.Clone()
	res := &request.SubmissionResult{}
	for i, req := range log {
		err := ctx.Err()
		if err == nil {
			err = b.fail[req.Kind]
		}
		if err != nil {
			ee := &request.ExecutionError{Index: i, Kind: req.Kind, ID: req.ID, Err: err}
			res.Failed = ee
			res.Pending = log[i:]
			return res, ee
		}
		b.counts[req.Kind]++
		res.Outcomes = append(res.Outcomes, request.Outcome{Index: i, Kind: req.Kind, ID: req.ID})
	}
	b.logger.Debug("null: executed", "count", len(log))
	return res, nil
}

// Count returns how many requests of kind executed.
func (b *Backend) Count(kind request.Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[kind]
}

// Total returns how many requests executed.
func (b *Backend) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.counts {
		n += c
	}
	return n
}

// Last returns a copy of the most recently submitted log.
func (b *Backend) Last() request.RequestLog {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last.Clone()
}

// Reset clears counters, failures and the last log.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts = make(map[request.Kind]int)
	b.fail = make(map[request.Kind]error)
	b.last = nil
}
