// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import (
	"context"
	"log/slog"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NopLogger returns a logger that silently discards all output.
// It is the logger of a Requester created without WithLogger.
func NopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to a backend if it implements the
// loggerSetter interface. Called when a backend is attached and when the
// Requester's logger changes, so the backend always logs through the same
// handler as its Requester.
func propagateLogger(b Backend, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
