package ir

import "strings"

// Node is anything the printer can render: an Expr, a Unit, or a Stmt.
// Rendering never relies on the backend's own operator precedence —
// every composite node parenthesizes its own children explicitly, so
// the printed text round-trips through any SQL-family parser.
type Node interface {
	render(p *Printer)
}

// Printer accumulates indentation-aware SQL text. Statements call
// NewLine between clauses so a printed Select reads like hand-written
// SQL rather than a single long line.
type Printer struct {
	buf    strings.Builder
	indent int
}

func NewPrinter() *Printer { return &Printer{} }

func (p *Printer) WriteString(s string) { p.buf.WriteString(s) }

// NewLine starts a new line at the printer's current indentation.
func (p *Printer) NewLine() {
	p.buf.WriteByte('\n')
	p.buf.WriteString(strings.Repeat("    ", p.indent))
}

// Block runs f with the indentation increased by one level.
func (p *Printer) Block(f func()) {
	p.indent++
	f()
	p.indent--
}

func (p *Printer) String() string { return p.buf.String() }

// Print renders a single node to its final text form.
func Print(n Node) string {
	p := NewPrinter()
	n.render(p)
	return p.String()
}
