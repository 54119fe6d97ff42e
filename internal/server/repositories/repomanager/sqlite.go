package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// sqlitePragmas are appended to every SQLite DSN that does not set its own.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Backend() Backend { return BackendSQLite }

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

// Migrator returns a goose provider over the embedded sqlite migrations.
func (m *SQLiteRepositoryManager) Migrator(db *sql.DB) (*goose.Provider, error) {
	return migrator(db, goose.DialectSQLite3, "sqlite")
}

// RunMigrations applies every pending migration.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runUp(ctx, m, db)
}

// openSQLite opens a single-connection pool: SQLite serialises writers anyway,
// and an in-memory database lives only as long as its one connection.
func openSQLite(dsn string) (*sql.DB, error) {
	if !strings.Contains(dsn, "_pragma=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + sqlitePragmas
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
