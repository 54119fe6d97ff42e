// Package server wires configuration, storage, the user service and the HTTP
// transport together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

const serviceName = "gophauth"

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpx.HTTPServer
}

// NewApp validates c, opens the database, applies migrations when
// configured and builds the HTTP server. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(w, serviceName, level)

	db, m, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if c.MigrateOnStart {
		if err := m.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info(ctx, "migrations applied", "backend", string(m.Backend()))
	}

	us := services.NewUserService(db, m, c)
	srv := httpx.NewHTTPServer(c.Addr, logger, us, c.ShutdownTimeout)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves until ctx is done or a termination signal arrives, then closes
// the database. A listen failure is returned as is.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	err := app.server.Run(ctx)
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(ctx, "close database", "error", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
