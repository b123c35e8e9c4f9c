// Package query composes the structural-query pipeline into the
// single synchronous entry point spec.md §6 names: parse the query
// source, compile it against a loaded grammar, optimize the resulting
// filter, attach the result projection (filename/position/project),
// print it, and run it against a store.Pool connection.
//
// Unlike ingest, which writes within an explicit transaction, a query
// is a single read: one connection acquired, one statement printed
// and run, one connection released.
package query
