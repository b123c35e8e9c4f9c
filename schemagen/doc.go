// Package schemagen turns a loaded grammar.Model into everything the
// rest of the pipeline needs to talk about that grammar: a JSON field
// database consumed by the compiler and the ingester, the backend DDL
// that creates the tables/links/constraints, and a generated Go
// constants file so the rest of the module can refer to a grammar
// type's dense id and a field's rewritten column name without a map
// lookup at runtime.
package schemagen
