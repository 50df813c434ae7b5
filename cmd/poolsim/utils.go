// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/shardstake/contracts/host"
	"github.com/shardstake/contracts/log"
	"github.com/shardstake/contracts/lvldb"
	"github.com/shardstake/contracts/types"
)

// initLogger routes all package loggers to stderr and returns the level the handler filters by.
func initLogger(ctx *cli.Context) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(log.FromVerbosity(ctx.Int(verbosityFlag.Name)))

	log.SetDefault(log.NewLevelHandler(level, newLogHandler(os.Stderr, ctx.Bool(jsonLogsFlag.Name))))
	return level
}

func newLogHandler(w *os.File, jsonLogs bool) slog.Handler {
	switch {
	case jsonLogs:
		return log.JSONHandler(w, log.LevelTrace)
	case isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()):
		return log.NewTerminalHandler(w, log.LevelTrace, true)
	default:
		return log.LogfmtHandler(w, log.LevelTrace)
	}
}

// hostOptions builds the host options from the flags, overridden by non-zero scenario options.
func hostOptions(ctx *cli.Context) (host.Options, error) {
	opts := host.DefaultOptions()
	if s := ctx.String(minValidatorStakeFlag.Name); s != "" {
		stake, err := types.ParseBalance(s)
		if err != nil {
			return opts, errors.WithMessage(err, minValidatorStakeFlag.Name)
		}
		opts.MinValidatorStake = stake
	}
	return opts, nil
}

// openHost opens the database in the data dir, or an in-memory one.
func openHost(ctx *cli.Context, opts host.Options) (*host.Host, io.Closer, error) {
	var (
		db  *lvldb.LevelDB
		err error
	)
	if dir := ctx.String(dataDirFlag.Name); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, nil, errors.Wrap(err, "create data dir")
		}
		db, err = lvldb.New(dir, lvldb.Options{
			CacheSize:              ctx.Int(cacheFlag.Name),
			OpenFilesCacheCapacity: 64,
		})
	} else {
		db, err = lvldb.NewMem()
	}
	if err != nil {
		return nil, nil, err
	}
	h, err := host.New(db, opts)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return h, db, nil
}
