// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves runtime switches of a running server.
package admin

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/api/utils"
	"github.com/shardstake/contracts/log"
)

var logger = log.WithContext("pkg", "admin")

type LogLevel struct {
	Level string `json:"level"`
}

type LogStatus struct {
	Enabled bool `json:"enabled"`
}

type Admin struct {
	logLevel *slog.LevelVar
	apiLogs  *atomic.Bool
}

func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool) *Admin {
	return &Admin{logLevel: logLevel, apiLogs: apiLogs}
}

func (a *Admin) getLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogLevel{Level: strings.ToLower(a.logLevel.Level().String())})
}

func (a *Admin) postLogLevel(w http.ResponseWriter, r *http.Request) error {
	var req LogLevel
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	switch req.Level {
	case "debug":
		a.logLevel.Set(log.LevelDebug)
	case "info":
		a.logLevel.Set(log.LevelInfo)
	case "warn":
		a.logLevel.Set(log.LevelWarn)
	case "error":
		a.logLevel.Set(log.LevelError)
	default:
		return utils.BadRequest(errors.Errorf("invalid verbosity level %q", req.Level))
	}
	logger.Info("log level updated", "level", req.Level)
	return a.getLogLevel(w, r)
}

func (a *Admin) getAPILogs(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogStatus{Enabled: a.apiLogs.Load()})
}

func (a *Admin) postAPILogs(w http.ResponseWriter, r *http.Request) error {
	var req LogStatus
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	a.apiLogs.Store(req.Enabled)
	logger.Info("api logs updated", "enabled", req.Enabled)
	return a.getAPILogs(w, r)
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("GET /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(a.getLogLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("POST /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(a.postLogLevel))
	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("GET /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.getAPILogs))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("POST /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.postAPILogs))
}
