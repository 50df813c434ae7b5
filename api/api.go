// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves read-only views of a host over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/shardstake/contracts/api/accounts"
	"github.com/shardstake/contracts/api/admin"
	"github.com/shardstake/contracts/api/contracts"
	"github.com/shardstake/contracts/api/middleware"
	"github.com/shardstake/contracts/host"
	"github.com/shardstake/contracts/log"
	"github.com/shardstake/contracts/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	// AllowedOrigins is a comma separated list of CORS origins.
	AllowedOrigins string
	EnableMetrics  bool
	// LogLevel enables the admin endpoints when set.
	LogLevel           *slog.LevelVar
	EnableReqLogger    *atomic.Bool
	SlowQueryThreshold time.Duration
}

// New returns the api handler.
func New(h *host.Host, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	accounts.New(h).Mount(router, "/accounts")
	contracts.New(h).Mount(router, "/contracts")

	if opts.LogLevel != nil {
		apiLogs := opts.EnableReqLogger
		if apiLogs == nil {
			apiLogs = new(atomic.Bool)
		}
		admin.New(opts.LogLevel, apiLogs).Mount(router, "/admin")
	}
	if opts.EnableMetrics {
		if handler := metrics.HTTPHandler(); handler != nil {
			router.Path("/metrics").Methods(http.MethodGet).Name("GET /metrics").Handler(handler)
		}
		router.Use(metricsMiddleware)
	}
	if opts.EnableReqLogger != nil {
		router.Use(middleware.RequestLogger(logger, opts.EnableReqLogger, opts.SlowQueryThreshold))
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(false),
	)(handler)
}

// recoveryLogger reports handler panics through the package logger.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	logger.Error("api handler panicked", "err", v)
}
