// Package ir is the intermediate representation produced by the
// structural-query compiler: a small tagged-sum predicate algebra (P,
// Term, the comparison/logical/call node types) plus the statement
// layer (Select, Insert, Update, For, With) that the optimizer rewrites
// and the printer renders into backend SQL.
//
// The predicate half of this package keeps the shape the project's
// filter builders have always had: untyped Field* constructors
// (FieldEQ, FieldIn, FieldContains-style call predicates, and so on)
// that bind to a field name and a raw value, so the same unbound
// predicate can be reused against more than one field.
package ir
