package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&serveCmd{}, "")
	commander.Register(&reportCmd{}, "pages")
	commander.Register(&exportCmd{}, "pages")
	commander.Register(&warmCmd{}, "pages")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
