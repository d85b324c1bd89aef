package main

import (
	"context"
	"flag"

	"StockWeather/internal/di"
	applogger "StockWeather/pkg/logger"

	"github.com/google/subcommands"
)

type serveCmd struct {
	base baseFlags
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the dashboard HTTP API" }
func (*serveCmd) Usage() string {
	return `serve [-config <path>]

  Serves the dashboard pages over HTTP until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	c.base.register(f)
}

func (c *serveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, l, err := c.base.load()
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	l.Info("starting",
		applogger.String("env", cfg.Environment),
		applogger.String("cache", cfg.Cache.Backend),
		applogger.String("archive", cfg.Archive.Backend),
		applogger.String("snapshots", cfg.Snapshots.Sink))

	app, cleanup, err := di.InitializeApp(cfg, l)
	if err != nil {
		l.Error("app initialization failed", applogger.Error(err))
		return subcommands.ExitFailure
	}
	app.SetCleanup(cleanup)

	if err := app.Run(); err != nil {
		l.Error("app error", applogger.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
