// Package serialize walks an astxform arena and emits the INSERT
// statements (and post-insert back-edge updates) that persist a parsed
// file. It generalizes the teacher's per-entity mutation builders
// (compiler/gen/sql/mutation.go) from emitting Go source to emitting
// ir.Stmt trees, since the target here is a query IR, not a generated
// client package.
package serialize
