// Package cli implements the carousel command-line interface.
//
// This package provides commands for computing keyline layouts, placing
// items at scroll offsets, previewing carousels in the terminal, managing
// presets and serving the HTTP API. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute keylines from item sizes or a strategy
//   - snap: Print snap offsets and the nearest item for a scroll offset
//   - place: Print per-item geometry at a scroll offset
//   - preview: Interactive terminal preview
//   - preset: Save, list, show and delete named layouts
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every layout, cache and store event. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Resolved 6 keylines (1ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// debugHooks logs every observability event at debug level. It is
// registered by --verbose.
type debugHooks struct {
	logger *log.Logger
}

func (h *debugHooks) OnKeylinesStart(_ context.Context, strategy string, itemCount int) {
	h.logger.Debug("keylines start", "strategy", strategy, "items", itemCount)
}

func (h *debugHooks) OnKeylinesComplete(_ context.Context, strategy string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("keylines failed", "strategy", strategy, "duration", d, "err", err)
		return
	}
	h.logger.Debug("keylines complete", "strategy", strategy, "duration", d)
}

func (h *debugHooks) OnPlaceStart(_ context.Context, itemCount int, scroll float64) {
	h.logger.Debug("place start", "items", itemCount, "scroll", scroll)
}

func (h *debugHooks) OnPlaceComplete(_ context.Context, visible int, d time.Duration) {
	h.logger.Debug("place complete", "visible", visible, "duration", d)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *debugHooks) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	h.logger.Debug("preset store", "backend", backend, "op", op, "duration", d, "err", err)
}

func (h *debugHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("http request", "method", method, "route", route)
}

func (h *debugHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "route", route, "status", status, "duration", d)
}
