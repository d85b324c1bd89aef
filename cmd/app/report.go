package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"StockWeather/internal/di"
	"StockWeather/internal/report"

	"github.com/google/subcommands"
)

type reportCmd struct {
	base   baseFlags
	page   string
	format string
	style  string
	width  int
	output string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "render a page as a markdown, terminal or HTML report" }
func (*reportCmd) Usage() string {
	return `report -page <id> [-format md|term|html] [-start <date>] [-end <date>] [-o <file>]

  Builds one page and prints its report.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.base.register(f)
	f.StringVar(&c.page, "page", "", "page id (commodities, regions, sectors, economy)")
	f.StringVar(&c.format, "format", "term", "output format: md, term or html")
	f.StringVar(&c.style, "style", "auto", "glamour style for -format term")
	f.IntVar(&c.width, "width", 100, "word wrap width for -format term")
	f.StringVar(&c.output, "o", "", "write to file instead of stdout")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.page == "" {
		fail(fmt.Errorf("-page is required"))
		return subcommands.ExitUsageError
	}
	switch c.format {
	case "md", "term", "html":
	default:
		fail(fmt.Errorf("unknown format %q", c.format))
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
	res, err := dash.Page(ctx, c.page, w)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	md := report.Markdown(res)
	var out []byte
	switch c.format {
	case "md":
		out = []byte(md)
	case "html":
		out, err = report.HTML(res.Page.Title, md)
	default:
		var s string
		s, err = report.Terminal(md, c.style, c.width)
		out = []byte(s)
	}
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	if err := write(c.output, out); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func write(path string, b []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
