package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/0903lokchan/banking/bank"
	"github.com/0903lokchan/banking/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	dbPath := flag.String("db", "", "SQLite database file (overrides config)")
	flag.Parse()

	cfg, err := bank.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger := logging.New(os.Stderr, cfg.Logging)

	app := bank.NewApp(logger, cfg, os.Stdin, os.Stdout)
	return app.Run(context.Background())
}
