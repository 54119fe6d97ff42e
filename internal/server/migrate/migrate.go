// Package migrate runs schema migrations on demand, outside server startup.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/pressly/goose/v3"
)

var ErrUnknownCommand = errors.New("unknown migrate command")

// Runner drives a goose provider and reports to a writer.
type Runner struct {
	provider *goose.Provider
	log      logging.Logger
	out      io.Writer
}

func New(p *goose.Provider, log logging.Logger, out io.Writer) *Runner {
	return &Runner{provider: p, log: log, out: out}
}

// Exec dispatches command: up, status, down or version. target is the
// version down rolls back to; zero means one step.
func (r *Runner) Exec(ctx context.Context, command string, target int64) error {
	switch command {
	case "up":
		return r.Up(ctx)
	case "status":
		return r.Status(ctx)
	case "down":
		return r.Down(ctx, target)
	case "version":
		return r.Version(ctx)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
}

func (r *Runner) Up(ctx context.Context) error {
	results, err := r.provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, res := range results {
		r.log.Info(ctx, "migration applied", "version", res.Source.Version, "path", res.Source.Path, "duration", res.Duration)
	}
	if len(results) == 0 {
		r.log.Info(ctx, "no pending migrations")
	}
	return nil
}

func (r *Runner) Down(ctx context.Context, target int64) error {
	var (
		results []*goose.MigrationResult
		err     error
	)
	if target > 0 {
		results, err = r.provider.DownTo(ctx, target)
	} else {
		var res *goose.MigrationResult
		res, err = r.provider.Down(ctx)
		if res != nil {
			results = append(results, res)
		}
	}
	if err != nil {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	for _, res := range results {
		r.log.Info(ctx, "migration rolled back", "version", res.Source.Version, "path", res.Source.Path)
	}
	return nil
}

func (r *Runner) Status(ctx context.Context) error {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
	for _, s := range statuses {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
	}
	return tw.Flush()
}

func (r *Runner) Version(ctx context.Context) error {
	v, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("database version: %w", err)
	}
	_, err = fmt.Fprintln(r.out, v)
	return err
}
