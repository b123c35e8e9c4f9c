package ingest

import (
	"go/parser"
	"go/token"
)

// Sanitize reports whether src is worth handing to the transformer at
// all: it must parse as Go source. This is the Go analogue of the
// original implementation's reiz/cleaner.py source_code() check, which
// discarded any file that failed ast.parse before it ever reached
// ingestion; here the same check runs inline per file instead of as a
// separate pre-pass over a cleaned copy of the corpus.
func Sanitize(filename string, src []byte) bool {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, filename, src, parser.AllErrors)
	return err == nil
}
