// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package router dispatches requests to handlers keyed by request kind.
//
// Backends build a Router once, registering one handler per (action,
// object) pair they support, and use Execute to run a submitted log with
// fail-fast semantics:
//
//	rt := router.New()
//	rt.Route(request.KindCreateBoard, b.createBoard)
//	rt.Route(request.KindDeleteBoard, b.deleteBoard)
//
//	func (b *Backend) Execute(ctx context.Context, log request.RequestLog) (*request.SubmissionResult, error) {
//	    return b.router.Execute(ctx, log)
//	}
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gogpu/request"
)

// ErrNoRoute is returned when no handler is registered for a request kind.
var ErrNoRoute = errors.New("router: no route")

// Handler executes one request.
type Handler func(ctx context.Context, req request.Request) error

// Router maps request kinds to handlers.
//
// Routes are registered during setup; a Router is not safe for concurrent
// registration and execution.
type Router struct {
	routes map[request.Kind]Handler
	logger *slog.Logger
}

// New creates an empty Router.
func New() *Router {
	return &Router{
		routes: make(map[request.Kind]Handler),
		logger: request.NopLogger(),
	}
}

// SetLogger sets the logger used to trace dispatch. Nil restores the
// silent default.
func (r *Router) SetLogger(l *slog.Logger) {
	if l == nil {
		l = request.NopLogger()
	}
	r.logger = l
}

// Route registers h for kind. It panics if h is nil or kind is already
// routed.
func (r *Router) Route(kind request.Kind, h Handler) {
	if h == nil {
		panic("router: Route handler is nil for " + kind.String())
	}
	if _, dup := r.routes[kind]; dup {
		panic("router: Route called twice for " + kind.String())
	}
	r.routes[kind] = h
}

// Lookup returns the handler for kind.
func (r *Router) Lookup(kind request.Kind) (Handler, bool) {
	h, ok := r.routes[kind]
	return h, ok
}

// Kinds returns the routed kinds, sorted by action then object.
func (r *Router) Kinds() []request.Kind {
	kinds := make([]request.Kind, 0, len(r.routes))
	for k := range r.routes {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].Action != kinds[j].Action {
			return kinds[i].Action < kinds[j].Action
		}
		return kinds[i].Object < kinds[j].Object
	})
	return kinds
}

// Dispatch validates and executes a single request. Handlers may assume
// the content type matches the kind.
func (r *Router) Dispatch(ctx context.Context, req request.Request) error {
	h, ok := r.routes[req.Kind]
	if !ok {
		return fmt.Errorf("%w for %s", ErrNoRoute, req.Kind)
	}
	if err := request.Validate(req); err != nil {
		return err
	}
	r.logger.Debug("router: dispatch", "kind", req.Kind.String(), "id", req.ID.String())
	return h(ctx, req)
}

// Execute dispatches the requests of log in order and stops at the first
// failure. Context cancellation is checked before each request; a
// cancelled context fails the next request with ctx.Err().
func (r *Router) Execute(ctx context.Context, log request.RequestLog) (*request.SubmissionResult, error) {
	res := &request.SubmissionResult{
		Outcomes: make([]request.Outcome, 0, len(log)),
	}
	for i, req := range log {
		err := ctx.Err()
		if err == nil {
			err = r.Dispatch(ctx, req)
		}
		if err != nil {
			ee := &request.ExecutionError{Index: i, Kind: req.Kind, ID: req.ID, Err: err}
			res.Failed = ee
			res.Pending = log[i:]
			r.logger.Debug("router: request failed", "index", i, "kind", req.Kind.String(), "err", err)
			return res, ee
		}
		res.Outcomes = append(res.Outcomes, request.Outcome{Index: i, Kind: req.Kind, ID: req.ID})
	}
	return res, nil
}
