package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// BackendError reports a backend failure that isn't a constraint
// violation: a dropped connection, a malformed statement, a context
// cancellation surfaced by the driver.
type BackendError struct {
	Op    string
	Query string
	Err   error
}

func (e *BackendError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s: %v (query: %s)", e.Op, e.Err, e.Query)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ConstraintViolation reports a unique or foreign-key constraint
// rejecting a write, classified from the dialect-specific driver
// error. The ingest driver does not inspect it: a commit that fails
// with a ConstraintViolation, including one on the filename/project
// unique index, is reported FAILED like any other commit error.
type ConstraintViolation struct {
	Table  string
	Detail string
	Err    error
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("store: constraint violation on %s: %s", e.Table, e.Detail)
}

func (e *ConstraintViolation) Unwrap() error { return e.Err }

// ClassifyError turns a raw error returned by ExecContext/QueryContext
// into a ConstraintViolation when the dialect's driver reports a
// unique or foreign-key violation, or a BackendError otherwise. op and
// query are carried through for logging.
func ClassifyError(dialect, op, query string, err error) error {
	if err == nil {
		return nil
	}
	switch dialect {
	case Postgres:
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && isPostgresConstraint(pqErr.Code) {
			return &ConstraintViolation{Table: pqErr.Table, Detail: pqErr.Message, Err: err}
		}
	case MySQL:
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && (myErr.Number == 1062 || myErr.Number == 1452) {
			return &ConstraintViolation{Detail: myErr.Message, Err: err}
		}
	case SQLite:
		if isSQLiteConstraint(err) {
			return &ConstraintViolation{Detail: err.Error(), Err: err}
		}
	}
	return &BackendError{Op: op, Query: query, Err: err}
}

// isPostgresConstraint reports whether code is one of the SQLSTATE
// class-23 (integrity constraint violation) codes lib/pq surfaces for
// a unique or foreign-key conflict.
func isPostgresConstraint(code pq.ErrorCode) bool {
	switch code {
	case "23505", "23503":
		return true
	default:
		return false
	}
}

// isSQLiteConstraint matches modernc.org/sqlite's plain-text error
// message; the driver doesn't expose a typed error for this.
func isSQLiteConstraint(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "FOREIGN KEY constraint failed")
}
