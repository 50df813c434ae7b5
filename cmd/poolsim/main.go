// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Command poolsim runs the staking contracts on a local host.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/shardstake/contracts/api"
	"github.com/shardstake/contracts/builtin"
	"github.com/shardstake/contracts/host"
	"github.com/shardstake/contracts/log"
	"github.com/shardstake/contracts/metrics"
	"github.com/shardstake/contracts/types"
)

var (
	version   string
	gitCommit string
	logger    = log.WithContext("pkg", "poolsim")
	// logLevel is set once the global flags are parsed.
	logLevel *slog.LevelVar
)

func fullVersion() string {
	if version == "" {
		return "dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "poolsim"
	app.Version = fullVersion()
	app.Usage = "run staking pool, multisig, factory and voting contracts on a local host"
	app.Flags = []cli.Flag{verbosityFlag, jsonLogsFlag}
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "apply a YAML scenario and print one JSON outcome per step",
			ArgsUsage: "<scenario.yaml>",
			Flags:     []cli.Flag{dataDirFlag, cacheFlag, minValidatorStakeFlag},
			Action:    runAction,
		},
		{
			Name:      "view",
			Usage:     "call a view method",
			ArgsUsage: "<account> <method> [json args]",
			Flags:     []cli.Flag{dataDirFlag, cacheFlag},
			Action:    viewAction,
		},
		{
			Name:      "inspect",
			Usage:     "dump an account and its decoded contract state",
			ArgsUsage: "<account>",
			Flags:     []cli.Flag{dataDirFlag, cacheFlag},
			Action:    inspectAction,
		},
		{
			Name:  "serve",
			Usage: "serve the view API",
			Flags: []cli.Flag{
				dataDirFlag,
				cacheFlag,
				apiAddrFlag,
				apiCorsFlag,
				apiSlowQueriesThresholdFlag,
				enableAPILogsFlag,
				enableMetricsFlag,
				enableAdminFlag,
			},
			Action: serveAction,
		},
		{
			Name:  "codes",
			Usage: "list the deployable contract codes",
			Action: func(ctx *cli.Context) error {
				for _, code := range builtin.Codes() {
					fmt.Fprintln(ctx.App.Writer, code)
				}
				return nil
			},
		},
	}
	app.Before = func(ctx *cli.Context) error {
		logLevel = initLogger(ctx)
		return nil
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected one scenario file", 2)
	}
	scenario, err := loadScenario(ctx.Args().First())
	if err != nil {
		return err
	}
	opts, err := hostOptions(ctx)
	if err != nil {
		return err
	}
	h, db, err := openHost(ctx, scenario.Options.apply(opts))
	if err != nil {
		return err
	}
	defer db.Close()

	r := newRunner(h, ctx.App.Writer)
	if err := r.genesis(scenario.Genesis); err != nil {
		return errors.WithMessage(err, "genesis")
	}
	return r.run(scenario.Steps)
}

func viewAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 || ctx.NArg() > 3 {
		return cli.NewExitError("expected <account> <method> [json args]", 2)
	}
	h, db, err := openHost(ctx, host.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	var args []byte
	if ctx.NArg() == 3 {
		args = []byte(ctx.Args().Get(2))
	}
	data, err := h.View(types.AccountID(ctx.Args().Get(0)), ctx.Args().Get(1), args)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		data = []byte("null")
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(data))
	return err
}

func inspectAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected one account", 2)
	}
	h, db, err := openHost(ctx, host.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()
	return inspect(ctx.App.Writer, h, types.AccountID(ctx.Args().First()))
}

func serveAction(ctx *cli.Context) error {
	h, db, err := openHost(ctx, host.DefaultOptions())
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing database..."); db.Close() }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
	apiLogs := new(atomic.Bool)
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	opts := api.Options{
		AllowedOrigins:     ctx.String(apiCorsFlag.Name),
		EnableMetrics:      ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:    apiLogs,
		SlowQueryThreshold: time.Duration(ctx.Int(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
	}
	if ctx.Bool(enableAdminFlag.Name) {
		opts.LogLevel = logLevel
	}

	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: api.New(h, opts), ReadHeaderTimeout: 10 * time.Second}
	done := make(chan error, 1)
	go func() { done <- srv.Serve(listener) }()
	logger.Info("API server started", "url", "http://"+listener.Addr().String()+"/")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	select {
	case <-interrupt:
		logger.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-done:
		return err
	}
}
