package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/migrate"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

func main() {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	command := fs.String("command", "up", "migrate command (up|status|down|version)")
	timeout := fs.Duration("timeout", time.Minute, "command timeout")
	target := fs.Int64("target", 0, "target version for down command (optional)")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-command", "-timeout", "-target"}))

	log := logging.New(os.Stderr, "gophauth-migrate", slog.LevelInfo)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error(context.Background(), "failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, m, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	p, err := m.Migrator(db)
	if err != nil {
		log.Error(ctx, "failed to configure migration provider", "error", err)
		os.Exit(1)
	}

	if err := migrate.New(p, log, os.Stdout).Exec(ctx, *command, *target); err != nil {
		log.Error(ctx, "migration command failed", "command", *command, "error", err)
		os.Exit(1)
	}

	log.Info(ctx, "migration command completed", "command", *command)
}
