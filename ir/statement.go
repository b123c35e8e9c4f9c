package ir

import "strconv"

// Stmt is the statement half of the IR: the tagged sum the SQL-to-IR
// compiler produces and the optimizer rewrites before the backend
// driver executes it. Every Stmt renders itself with explicit
// parenthesization and indentation; nothing downstream depends on a
// particular backend's operator precedence.
type Stmt interface {
	Node
	stmtNode()
}

// KV is a single field-name/value pair, used by Insert, Update, and
// With wherever the grammar needs an ordered assignment list.
type KV struct {
	Key   string
	Value Expr
}

// Select is `SELECT From FILTER Filter ORDER BY ... LIMIT n OFFSET n`.
// Filter is nil for an unconstrained select.
type Select struct {
	From    string
	Filter  P
	OrderBy []string
	Limit   *int
	Offset  *int
}

func (*Select) stmtNode() {}
func (s *Select) render(p *Printer) {
	p.WriteString("SELECT")
	p.Block(func() {
		p.NewLine()
		p.WriteString(s.From)
	})
	if s.Filter != nil {
		p.NewLine()
		p.WriteString("FILTER")
		p.Block(func() {
			p.NewLine()
			p.WriteString(s.Filter.String())
		})
	}
	if len(s.OrderBy) > 0 {
		p.NewLine()
		p.WriteString("ORDER BY ")
		p.WriteString(join(s.OrderBy, ", "))
	}
	if s.Limit != nil {
		p.NewLine()
		p.WriteString("LIMIT ")
		p.WriteString(strconv.Itoa(*s.Limit))
	}
	if s.Offset != nil {
		p.NewLine()
		p.WriteString("OFFSET ")
		p.WriteString(strconv.Itoa(*s.Offset))
	}
}

// Insert is `INSERT Into { field := value, ... }`.
type Insert struct {
	Into   string
	Fields []KV
}

func (*Insert) stmtNode() {}
func (i *Insert) render(p *Printer) {
	p.WriteString("INSERT ")
	p.WriteString(i.Into)
	p.WriteString(" {")
	p.Block(func() {
		for _, f := range i.Fields {
			p.NewLine()
			p.WriteString(f.Key)
			p.WriteString(" := ")
			f.Value.render(p)
			p.WriteString(",")
		}
	})
	p.NewLine()
	p.WriteString("}")
}

// Update is `UPDATE Table FILTER Filter SET { field := value, ... }`.
type Update struct {
	Table  string
	Filter P
	Set    []KV
}

func (*Update) stmtNode() {}
func (u *Update) render(p *Printer) {
	p.WriteString("UPDATE ")
	p.WriteString(u.Table)
	if u.Filter != nil {
		p.NewLine()
		p.WriteString("FILTER ")
		p.WriteString(u.Filter.String())
	}
	p.NewLine()
	p.WriteString("SET {")
	p.Block(func() {
		for _, f := range u.Set {
			p.NewLine()
			p.WriteString(f.Key)
			p.WriteString(" := ")
			f.Value.render(p)
			p.WriteString(",")
		}
	})
	p.NewLine()
	p.WriteString("}")
}

// For is `FOR Var IN In UNION ( Body )`, an iteration construct that
// projects a sequence into a derived set.
type For struct {
	Var  string
	In   Expr
	Body Stmt
}

func (*For) stmtNode() {}
func (f *For) render(p *Printer) {
	p.WriteString("FOR ")
	p.WriteString(f.Var)
	p.WriteString(" IN ")
	f.In.render(p)
	p.NewLine()
	p.WriteString("UNION (")
	p.Block(func() {
		p.NewLine()
		f.Body.render(p)
	})
	p.NewLine()
	p.WriteString(")")
}

// With is `WITH name := value, ... Body`, the scope-introducing
// construct the structural query compiler wraps around a Select to bind
// the `sequence_N` variables its list matchers allocate (`~name`
// references compile to direct comparisons, not With bindings).
type With struct {
	Bindings []KV
	Body     Stmt
}

func (*With) stmtNode() {}
func (w *With) render(p *Printer) {
	p.WriteString("WITH")
	p.Block(func() {
		for _, b := range w.Bindings {
			p.NewLine()
			p.WriteString(b.Key)
			p.WriteString(" := ")
			b.Value.render(p)
			p.WriteString(",")
		}
	})
	p.NewLine()
	w.Body.render(p)
}

// ExprAsStmt lifts a plain expression (typically a Shape) into a Stmt
// position, for embedding as a For's body where the iteration yields
// a projected value rather than a nested SELECT.
type ExprAsStmt struct{ X Expr }

func (*ExprAsStmt) stmtNode() {}
func (e *ExprAsStmt) render(p *Printer) { e.X.render(p) }

// WrappedStatement parenthesizes a statement so it can be embedded as
// a sub-expression, e.g. a For's UNION body or a nested SELECT.
type WrappedStatement struct{ Stmt Stmt }

func (*WrappedStatement) stmtNode() {}
func (w *WrappedStatement) render(p *Printer) {
	p.WriteString("(")
	p.Block(func() {
		p.NewLine()
		w.Stmt.render(p)
	})
	p.NewLine()
	p.WriteString(")")
}
