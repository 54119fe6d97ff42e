// Package repomanager selects the credential-store backend from a DSN, opens
// the connection pool and vends repositories and migrations for it.
package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// RepositoryManager vends repositories bound to a DBTX and owns the schema
// migrations of its backend.
type RepositoryManager interface {
	Backend() Backend
	Migrator(db *sql.DB) (*goose.Provider, error)
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// Backend names a supported database.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

var ErrUnsupportedDSN = errors.New("unsupported database dsn")

// ParseDSN detects the backend of dsn and returns the DSN to hand to the
// driver. postgres:// and postgresql:// URLs go to pgx; sqlite://<path>,
// file:<path> and :memory: go to SQLite.
func ParseDSN(dsn string) (Backend, string, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return BackendPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
		}
		return BackendSQLite, path, nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return BackendSQLite, dsn, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, redactDSN(dsn))
}

// Open parses dsn, opens and pings the pool, and returns it with the
// matching manager. The caller owns the returned *sql.DB.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	backend, driverDSN, err := ParseDSN(dsn)
	if err != nil {
		return nil, nil, err
	}

	var (
		db *sql.DB
		m  RepositoryManager
	)
	switch backend {
	case BackendPostgres:
		db, err = openPostgres(driverDSN)
		m = NewPostgresRepositoryManager()
	case BackendSQLite:
		db, err = openSQLite(driverDSN)
		m = NewSQLiteRepositoryManager()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, m, nil
}

// newProvider is a seam for testing goose.NewProvider.
var newProvider = goose.NewProvider

func migrator(db *sql.DB, dialect goose.Dialect, dir string) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations dir %s: %w", dir, err)
	}
	p, err := newProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}

func runUp(ctx context.Context, m RepositoryManager, db *sql.DB) error {
	p, err := m.Migrator(db)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// redactDSN hides everything between "://" and "@" so credentials do not end
// up in logs.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	if _, host, ok := strings.Cut(rest, "@"); ok {
		return scheme + "://***@" + host
	}
	return dsn
}
