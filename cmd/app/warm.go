package main

import (
	"context"
	"flag"
	"fmt"

	"StockWeather/internal/di"
	"StockWeather/internal/domain/catalog"
	"StockWeather/internal/usecase"
	applogger "StockWeather/pkg/logger"

	"github.com/google/subcommands"
)

type warmCmd struct {
	base  baseFlags
	pages pageList
}

// pageList collects repeated -page flags.
type pageList []string

func (p *pageList) String() string     { return fmt.Sprint(*p) }
func (p *pageList) Set(v string) error { *p = append(*p, v); return nil }

func (*warmCmd) Name() string     { return "warm" }
func (*warmCmd) Synopsis() string { return "enqueue page warm-ups on the Redis queue" }
func (*warmCmd) Usage() string {
	return `warm [-page <id>]... [-start <date>] [-end <date>]

  Enqueues one warm-up per page; every enabled page when -page is omitted.
  A running serve instance with queue.enabled picks them up.
`
}

func (c *warmCmd) SetFlags(f *flag.FlagSet) {
	c.base.register(f)
	f.Var(&c.pages, "page", "page id, repeatable")
}

func (c *warmCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, l, err := c.base.load()
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	cat := catalog.Default(cfg.Data.Pages...)
	pages := []string(c.pages)
	if len(pages) == 0 {
		for _, p := range cat.Pages() {
			pages = append(pages, p.ID)
		}
	}
	for _, id := range pages {
		if !cat.Has(id) {
			fail(fmt.Errorf("unknown page %q", id))
			return subcommands.ExitUsageError
		}
	}

	pub, cleanup, err := di.InitializeWarmPublisher(cfg, l)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	if err := usecase.EnqueueWarmups(ctx, pub, pages, c.base.start, c.base.end); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	l.Info("warm-ups enqueued", applogger.Strings("pages", pages))
	return subcommands.ExitSuccess
}
