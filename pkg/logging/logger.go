// Package logging holds the structured logger shared by the library packages.
//
// By default nothing is logged. Programs opt in with SetLogger, usually only when
// started with -v.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled returns false so callers skip
// attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs l for all library packages. Pass nil to restore the silent
// default. Safe for concurrent use.
//
// Levels:
//   - [slog.LevelDebug]: document and atlas load progress
//   - [slog.LevelWarn]: recoverable data problems (duplicate uids, orphan timelines,
//     sprites missing from every atlas)
//   - [slog.LevelError]: the offending element of an aborted parse
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
