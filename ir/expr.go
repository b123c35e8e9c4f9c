package ir

import (
	"strconv"
	"strings"
)

// Expr is the expression half of the statement layer: the things that
// can appear as a SELECT's projection, an INSERT's field values, or a
// FOR's iteration source. It is deliberately a different sum from P —
// P is a boolean-valued filter predicate, Expr is any value.
type Expr interface {
	Node
	exprNode()
}

// Literal is an already-formatted scalar: a quoted string, a bare
// number, or `true`/`false` — the same vocabulary formatAny produces
// for the predicate algebra.
type Literal struct{ Text string }

func (Literal) exprNode()          {}
func (l Literal) render(p *Printer) { p.WriteString(l.Text) }

// Name is a bare reference: a variable bound by a With or For, or a
// type name used as a path root.
type Name struct{ Name string }

func (Name) exprNode()           {}
func (n Name) render(p *Printer) { p.WriteString(n.Name) }

// Attribute is a dotted path step: base.attr.
type Attribute struct {
	Base Expr
	Attr string
}

func (Attribute) exprNode() {}
func (a Attribute) render(p *Printer) {
	a.Base.render(p)
	p.WriteString(".")
	p.WriteString(a.Attr)
}

// Call is a function application: name(args...).
type Call struct {
	Func string
	Args []Expr
}

func (Call) exprNode() {}
func (c Call) render(p *Printer) {
	p.WriteString(c.Func)
	p.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			p.WriteString(", ")
		}
		a.render(p)
	}
	p.WriteString(")")
}

// Cast is a runtime type assertion/coercion: <Type>X. The structural
// query compiler emits this when a path steps through a polymorphic
// link narrowed to one constructor; `IS T` tests use Is/IsExpr instead.
type Cast struct {
	Type string
	X    Expr
}

func (Cast) exprNode() {}
func (c Cast) render(p *Printer) {
	p.WriteString("<")
	p.WriteString(c.Type)
	p.WriteString(">")
	c.X.render(p)
}

// Subscript is an indexed step into a sequence-valued path: base[index].
// A negative index counts from the end, the form the structural query
// compiler emits for positions trailing an expand anchor.
type Subscript struct {
	Base  Expr
	Index int
}

func (Subscript) exprNode() {}
func (s Subscript) render(p *Printer) {
	s.Base.render(p)
	p.WriteString("[")
	p.WriteString(strconv.Itoa(s.Index))
	p.WriteString("]")
}

// Existence wraps a sub-expression in an EXISTS test.
type Existence struct{ X Expr }

func (Existence) exprNode() {}
func (e Existence) render(p *Printer) {
	p.WriteString("EXISTS (")
	e.X.render(p)
	p.WriteString(")")
}

// Assign is a binding: target := value. It appears inside INSERT/
// UPDATE field lists and WITH clauses.
type Assign struct {
	Target string
	Value  Expr
}

func (Assign) exprNode() {}
func (a Assign) render(p *Printer) {
	p.WriteString(a.Target)
	p.WriteString(" := ")
	a.Value.render(p)
}

// Container is an ordered literal collection: [e1, e2, ...].
type Container struct{ Elems []Expr }

func (Container) exprNode() {}
func (c Container) render(p *Printer) {
	p.WriteString("[")
	for i, e := range c.Elems {
		if i > 0 {
			p.WriteString(", ")
		}
		e.render(p)
	}
	p.WriteString("]")
}

// Compare is a value-valued comparison (as opposed to P's boolean
// predicate comparisons) used where the grammar allows a comparison to
// appear as an expression, e.g. inside an aggregate argument.
type Compare struct {
	Left  Expr
	Op    string
	Right Expr
}

func (Compare) exprNode() {}
func (c Compare) render(p *Printer) {
	p.WriteString("(")
	c.Left.render(p)
	p.WriteString(" ")
	p.WriteString(c.Op)
	p.WriteString(" ")
	c.Right.render(p)
	p.WriteString(")")
}

// Union is a value-level UNION of two expressions (set union, not the
// statement-level UNION used by For).
type Union struct{ Left, Right Expr }

func (Union) exprNode() {}
func (u Union) render(p *Printer) {
	p.WriteString("(")
	u.Left.render(p)
	p.WriteString(" UNION ")
	u.Right.render(p)
	p.WriteString(")")
}

// Shape is a property-projection: Base { prop := value, ... }, the
// same bracketed shape syntax Insert/Update use for their own field
// lists, available wherever the grammar needs to attach a computed
// property (most notably `@index`) to an arbitrary expression instead
// of only to a freshly-inserted row.
type Shape struct {
	Base  Expr
	Props []KV
}

func (Shape) exprNode() {}
func (s Shape) render(p *Printer) {
	s.Base.render(p)
	p.WriteString(" {")
	p.Block(func() {
		for _, prop := range s.Props {
			p.NewLine()
			p.WriteString(prop.Key)
			p.WriteString(" := ")
			prop.Value.render(p)
			p.WriteString(",")
		}
	})
	p.NewLine()
	p.WriteString("}")
}

// StmtExpr embeds a statement where the grammar expects a value, such
// as a nested SELECT used to resolve a link field to the id recorded
// for an already-inserted row. Callers that need the embedding
// parenthesized wrap Stmt in a WrappedStatement first.
type StmtExpr struct{ Stmt Stmt }

func (StmtExpr) exprNode()            {}
func (s StmtExpr) render(p *Printer) { s.Stmt.render(p) }

// ExprString renders a single Expr outside of a full statement, e.g.
// for embedding inside a P via rawTerm.
func ExprString(e Expr) string { return Print(e) }

// join is a small helper shared by the statement printers below.
func join(items []string, sep string) string { return strings.Join(items, sep) }
