// Package parse turns structural-query source text into this
// package's own match-tree node types, by feeding the text through
// go/parser and folding the resulting go/ast.Expr into reizql nodes.
// It knows nothing about a loaded grammar — field-order binding and
// type resolution are the compiler's job (see reizql/compiler).
package parse
