package store

import (
	"context"
	"database/sql"

	// Registering the three backends store.Open accepts. Postgres is
	// the backend of record; MySQL is a secondary dialect; SQLite is
	// the pure-Go dialect cmd/reiz-ingest's tests run against.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names a supported backend, mirroring the string each
// driver package registers itself under via sql.Register.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// ExecQuerier is the minimal surface a *Driver, a *sql.Conn, and a
// *sql.Tx all expose, letting callers like Caches.Refresh run the
// same query whether or not they're inside a transaction.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Driver wraps a *sql.DB with its dialect name, the unit store.Open
// returns.
type Driver struct {
	*sql.DB
	dialect string
}

// Open dials dialect at source and verifies the connection with a
// ping, returning a *Driver ready for use.
func Open(ctx context.Context, dialect, source string) (*Driver, error) {
	db, err := sql.Open(dialect, source)
	if err != nil {
		return nil, &BackendError{Op: "open", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &BackendError{Op: "ping", Err: err}
	}
	return NewDriver(db, dialect), nil
}

// NewDriver wraps an already-open *sql.DB as a Driver for dialect,
// without dialing or pinging it. Exposed for callers that manage
// their own *sql.DB lifecycle (dependency injection, or a mocked
// driver in tests) rather than going through Open.
func NewDriver(db *sql.DB, dialect string) *Driver {
	return &Driver{DB: db, dialect: dialect}
}

// Dialect reports the name the driver was opened with.
func (d *Driver) Dialect() string { return d.dialect }

var (
	_ ExecQuerier = (*sql.DB)(nil)
	_ ExecQuerier = (*sql.Tx)(nil)
)
