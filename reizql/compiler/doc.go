// Package compiler lowers a parsed match tree (reizql/parse) into an
// ir.Stmt. It consults two views of the grammar: a loaded
// schemagen.FieldDB for field order, column/table names and qualifiers,
// and a grammar.Model for sum/enum classification of a field's
// declared link type - FieldDB deliberately drops the sum-level entry
// for a non-enum polymorphic sum (keeping only its constructors), so
// the "is this link polymorphic" question can only be answered by the
// model. It owns no surface syntax of its own.
package compiler
