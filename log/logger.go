// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to a handler.
type Logger = gethlog.Logger

const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

var (
	rootHandler = newSwapHandler(DiscardHandler())
	root        = gethlog.NewLogger(rootHandler)
)

// SetDefault routes every logger of this package, including ones created earlier, to h.
func SetDefault(h slog.Handler) {
	rootHandler.swap(h)
}

// Root returns the root logger.
func Root() Logger {
	return root
}

// WithContext returns a logger that always carries ctx.
func WithContext(ctx ...any) Logger {
	return root.With(ctx...)
}

// FromVerbosity maps the 0 (crit) .. 5 (trace) verbosity scale to a level.
func FromVerbosity(v int) slog.Level {
	return gethlog.FromLegacyLevel(v)
}

func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }

// NewLogger returns a logger writing to h, detached from the root handler.
func NewLogger(h slog.Handler) Logger {
	return gethlog.NewLogger(h)
}
