// Package store provides the backend connection pool and the
// filename/project dedup caches the ingest driver uses to stay
// idempotent across runs, grounded on the teacher's dialect/sql
// driver+stats trio (dialect.Driver/Tx/ExecQuerier, StatsDriver's
// atomic counters) generalized across the Postgres, MySQL, and SQLite
// dialects this module wires in.
package store
