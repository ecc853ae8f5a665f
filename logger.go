package timewarp

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost — this matters on
// the display worker, which logs from a real-time path.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from either worker.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for timewarp and its sub-packages.
// By default, timewarp produces no log output. Pass nil to restore the
// default silent behavior.
//
// Log levels used by timewarp:
//   - [slog.LevelDebug]: per-cycle admission decisions
//   - [slog.LevelInfo]: lifecycle events (scheduler created, shut down)
//   - [slog.LevelWarn]: degraded operation (warp submission failures)
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by timewarp. Sub-packages
// (backend/wgpu, tracking) call this to share the same logger configuration
// without introducing import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
