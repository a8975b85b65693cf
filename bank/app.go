package bank

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"golang.org/x/exp/slog"

	_ "github.com/mattn/go-sqlite3"
)

// App is the main application. It owns the database handle and wires
// the repository, service and menu together.
type App struct {
	logger *slog.Logger
	config *Config
	in     io.Reader
	out    io.Writer
}

func NewApp(logger *slog.Logger, config *Config, in io.Reader, out io.Writer) *App {
	logger = logger.With(slog.String("app", "banking"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		logger: logger,
		config: config,
		in:     in,
		out:    out,
	}
}

// Run opens the SQLite database (creating the file when missing),
// migrates the schema and drives the menu until the user exits.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting app...", slog.String("db", a.config.DBPath))

	db, err := sql.Open("sqlite3", a.config.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	repository := NewRepository(db)
	if err := repository.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	service := NewService(repository, a.config)
	menu := NewMenu(service, a.in, a.out, a.logger)

	if err := menu.Run(ctx); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}

	a.logger.Info("app stopped")
	return nil
}
