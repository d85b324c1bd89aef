package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"StockWeather/internal/di"
	"StockWeather/internal/report"

	"github.com/google/subcommands"
)

type exportCmd struct {
	base   baseFlags
	page   string
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the aligned close panel of a page" }
func (*exportCmd) Usage() string {
	return `export -page <id> [-format csv|parquet] [-o <file>]

  Writes the date-aligned panel of a page as CSV (wide) or Parquet (long).
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.base.register(f)
	f.StringVar(&c.page, "page", "", "page id")
	f.StringVar(&c.format, "format", "csv", "csv or parquet")
	f.StringVar(&c.output, "o", "", "output file (required for parquet)")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.page == "" {
		fail(fmt.Errorf("-page is required"))
		return subcommands.ExitUsageError
	}
	if c.format != "csv" && c.format != "parquet" {
		fail(fmt.Errorf("unknown format %q", c.format))
		return subcommands.ExitUsageError
	}
	if c.format == "parquet" && c.output == "" {
		fail(fmt.Errorf("-o is required for parquet"))
		return subcommands.ExitUsageError
	}
	cfg, l, err := c.base.load()
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	dash, cleanup, err := di.InitializeDashboard(cfg, l)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	w, err := dash.Window(c.base.start, c.base.end)
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	p, err := dash.Panel(ctx, c.page, w)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	var out io.Writer = os.Stdout
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			fail(err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		out = f
	}
	if c.format == "parquet" {
		err = report.WriteParquet(out, p)
	} else {
		err = report.WriteCSV(out, p)
	}
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
