package astxform

import (
	"go/ast"
	"go/token"
	"strings"
)

// LeadingComments returns the text of every comment line immediately
// preceding decl in the source, with the leading "//" stripped. Go has
// no Python-style decorator syntax, so a leading comment block is the
// closest equivalent source-level annotation a declaration carries;
// callers that want decorator-like metadata (e.g. a linter directive
// such as "//go:generate") should scan this list themselves.
func LeadingComments(fset *token.FileSet, file *ast.File, decl ast.Decl) []string {
	cmap := ast.NewCommentMap(fset, file, file.Comments)
	group, ok := cmap[decl]
	if !ok {
		return nil
	}
	var lines []string
	for _, g := range group {
		if g.Pos() >= decl.Pos() {
			continue
		}
		for _, c := range g.List {
			lines = append(lines, strings.TrimPrefix(strings.TrimPrefix(c.Text, "//"), " "))
		}
	}
	return lines
}
