// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// swapHandler forwards records to a replaceable handler. Loggers derived from it before
// the handler is configured (package-level loggers) pick up the new handler.
type swapHandler struct {
	inner *atomic.Pointer[slog.Handler]
	attrs []slog.Attr
}

func newSwapHandler(h slog.Handler) *swapHandler {
	ptr := new(atomic.Pointer[slog.Handler])
	ptr.Store(&h)
	return &swapHandler{inner: ptr}
}

func (h *swapHandler) current() slog.Handler {
	inner := *h.inner.Load()
	if len(h.attrs) == 0 {
		return inner
	}
	return inner.WithAttrs(h.attrs)
}

func (h *swapHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.current().Handle(ctx, r)
}

func (h *swapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return (*h.inner.Load()).Enabled(ctx, level)
}

func (h *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &swapHandler{
		inner: h.inner,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

func (h *swapHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *swapHandler) swap(next slog.Handler) {
	h.inner.Store(&next)
}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return gethlog.DiscardHandler()
}

// NewTerminalHandler returns a human readable, optionally colored handler at the given level.
func NewTerminalHandler(wr io.Writer, level slog.Level, useColor bool) slog.Handler {
	return gethlog.NewTerminalHandlerWithLevel(wr, level, useColor)
}

// LogfmtHandler returns a logfmt handler at the given level.
func LogfmtHandler(wr io.Writer, level slog.Level) slog.Handler {
	return gethlog.LogfmtHandlerWithLevel(wr, level)
}

// JSONHandler returns a JSON handler at the given level.
func JSONHandler(wr io.Writer, level slog.Level) slog.Handler {
	return gethlog.JSONHandlerWithLevel(wr, level)
}

type levelHandler struct {
	level slog.Leveler
	inner slog.Handler
}

// NewLevelHandler drops records below level. The level is read on every record,
// so a *slog.LevelVar changes verbosity at runtime.
func NewLevelHandler(level slog.Leveler, h slog.Handler) slog.Handler {
	return &levelHandler{level: level, inner: h}
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithGroup(name)}
}
