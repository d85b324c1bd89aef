package main

import (
	"flag"
	"fmt"
	"os"

	"StockWeather/pkg/config"
	applogger "StockWeather/pkg/logger"
)

// baseFlags are shared by every command.
type baseFlags struct {
	configPath string
	start, end string
}

func (b *baseFlags) register(f *flag.FlagSet) {
	f.StringVar(&b.configPath, "config", "config/config.yaml", "config file path")
	f.StringVar(&b.start, "start", "", "window start YYYY-MM-DD (defaults to data.start)")
	f.StringVar(&b.end, "end", "", "window end YYYY-MM-DD (defaults to data.end)")
}

func (b *baseFlags) load() (*config.Config, *applogger.Logger, error) {
	cfg, err := config.LoadWithEnv(b.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config load failed: %w", err)
	}
	l, err := applogger.New(&applogger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "stockweather",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, l, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
