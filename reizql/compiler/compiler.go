package compiler

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"

	"github.com/reizio/reiz/grammar"
	"github.com/reizio/reiz/ir"
	"github.com/reizio/reiz/reizql/parse"
	"github.com/reizio/reiz/schemagen"
)

// foldCase applies Unicode simple case folding to an I("...") pattern's
// text at compile time. A backend's own ILIKE/COLLATE NOCASE only folds
// reliably within ASCII, and the three target dialects don't agree past
// it, so the pattern is folded once here instead of trusting each
// dialect's collation to match.
var foldCase = cases.Fold()

// cursor is the compiler's notion of "where we are": the path
// expression reached so far, whether it is the unqualified query root
// (whose own type is already pinned by the FROM clause, so no IS check
// is emitted for it), and whether it denotes a link (another grammar
// type) rather than a primitive, which decides how Ref equality is
// rendered.
type cursor struct {
	expr   ir.Expr
	isRoot bool
	isLink bool
}

type definition struct {
	expr   ir.Expr
	isLink bool
	used   bool
}

type scope struct {
	defs map[string]*definition
}

func newScope() *scope { return &scope{defs: map[string]*definition{}} }

type compiler struct {
	db     *schemagen.FieldDB
	model  *grammar.Model
	scopes []*scope
	vars   []ir.KV
	seqNum int
}

func (c *compiler) pushScope() { c.scopes = append(c.scopes, newScope()) }

// popScope closes the innermost scope, failing if any name it defined
// was never used (spec.md §8 property 7, scope hygiene).
func (c *compiler) popScope(r parse.Range) error {
	top := c.scopes[len(c.scopes)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]
	for name, def := range top.defs {
		if !def.used {
			return &CompilerError{Reason: "reference " + strconv.Quote(name) + " is defined but never used", Range: r}
		}
	}
	return nil
}

func (c *compiler) lookupRef(name string) *definition {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if d, ok := c.scopes[i].defs[name]; ok {
			return d
		}
	}
	return nil
}

// Compile lowers one parsed match tree into a Stmt. db supplies field
// order, column/table names and qualifiers; model supplies the sum/enum
// classification db itself does not retain for polymorphic link types
// (db projects a non-enum sum down to its constructors alone, so it has
// no entry for, say, "Expr" itself - only for "Name", "Call", ...). The
// root table is whichever grammar type the outermost match (optionally
// wrapped in a chain of negations, per S6) names.
func Compile(root parse.Node, db *schemagen.FieldDB, model *grammar.Model) (ir.Stmt, error) {
	table, _, ok := Anchor(root, db)
	if !ok {
		m, hasMatch := findAnchor(root)
		if !hasMatch {
			return nil, &CompilerError{Reason: "top-level query must name a grammar type", Range: root.Pos()}
		}
		return nil, &CompilerError{Reason: "unknown matcher " + strconv.Quote(m.Type), Range: m.Range}
	}

	c := &compiler{db: db, model: model}
	c.pushScope()
	filter, err := c.compileNode(root, cursor{expr: ir.Name{Name: ""}, isRoot: true})
	if err != nil {
		return nil, err
	}
	if err := c.popScope(root.Pos()); err != nil {
		return nil, err
	}

	var stmt ir.Stmt = &ir.Select{From: table, Filter: filter}
	if len(c.vars) > 0 {
		stmt = &ir.With{Bindings: c.vars, Body: stmt}
	}
	return stmt, nil
}

// Anchor reports the backend table name and grammar type name the
// query is rooted at (see findAnchor), independent of the rest of
// Compile's state. query's projection step needs this before a
// statement is built, to decide the result shape (filename/pos/
// end_pos/project) from the root type alone.
func Anchor(root parse.Node, db *schemagen.FieldDB) (table string, typeName string, ok bool) {
	m, ok := findAnchor(root)
	if !ok {
		return "", "", false
	}
	entry, ok := db.Lookup(m.Type)
	if !ok {
		return "", "", false
	}
	return entry.Table, m.Type, true
}

// findAnchor locates the match that pins the query's FROM table: the
// outermost match, unwrapped through any chain of negations (S6) or
// the left-first branch of a top-level conjunction (a match ANDed
// with a META(...) builtin, say).
func findAnchor(n parse.Node) (*parse.Match, bool) {
	switch n := n.(type) {
	case *parse.Match:
		return n, true
	case *parse.Not:
		return findAnchor(n.X)
	case *parse.And:
		if m, ok := findAnchor(n.Left); ok {
			return m, true
		}
		return findAnchor(n.Right)
	default:
		return nil, false
	}
}

func (c *compiler) compileNode(n parse.Node, cur cursor) (ir.P, error) {
	switch n := n.(type) {
	case *parse.Match:
		return c.compileMatch(n, cur)
	case *parse.Or:
		left, err := c.compileNode(n.Left, cur)
		if err != nil {
			return nil, err
		}
		right, err := c.compileNode(n.Right, cur)
		if err != nil {
			return nil, err
		}
		if left == nil || right == nil {
			return nil, &CompilerError{Reason: "| requires both sides to produce a filter", Range: n.Range}
		}
		return ir.Or(left, right), nil
	case *parse.And:
		left, err := c.compileNode(n.Left, cur)
		if err != nil {
			return nil, err
		}
		right, err := c.compileNode(n.Right, cur)
		if err != nil {
			return nil, err
		}
		// An unconstrained (nil) side is the identity for &, letting
		// a bare match combine with a builtin like META that carries
		// no field bindings of its own.
		switch {
		case left == nil && right == nil:
			return nil, nil
		case left == nil:
			return right, nil
		case right == nil:
			return left, nil
		default:
			return ir.And(left, right), nil
		}
	case *parse.Not:
		x, err := c.compileNode(n.X, cur)
		if err != nil {
			return nil, err
		}
		if x == nil {
			return nil, &CompilerError{Reason: "cannot negate an unconstrained match", Range: n.Range}
		}
		return ir.Not(x), nil
	case *parse.Ref:
		return c.compileRef(n, cur)
	case *parse.NoneLit:
		return ir.EQ(ir.Raw(ir.ExprString(cur.expr)), ir.Raw("nil")), nil
	case *parse.Constant:
		return ir.EQ(ir.Raw(ir.ExprString(cur.expr)), ir.Raw(formatConstant(n.Value))), nil
	case *parse.Pattern:
		op, text := "like", n.Text
		if n.CaseInsensitive {
			op = "ilike"
			text = foldCase.String(text)
		}
		return &ir.CallExpr{Name: op, Args: []string{ir.ExprString(cur.expr), strconv.Quote(text)}}, nil
	case *parse.Builtin:
		return c.compileBuiltin(n, cur)
	case *parse.Skip:
		return nil, nil
	case *parse.Expand:
		return nil, &CompilerError{Reason: "Expand() is only valid as a list-matcher item", Range: n.Range}
	case *parse.ListMatch:
		return c.compileListField(n, cur)
	case *parse.SetMatch:
		return c.compileSetField(n, cur)
	default:
		return nil, &CompilerError{Reason: fmt.Sprintf("unsupported node %T", n)}
	}
}

func (c *compiler) compileRef(r *parse.Ref, cur cursor) (ir.P, error) {
	if d := c.lookupRef(r.Name); d != nil {
		if d.isLink != cur.isLink {
			return nil, &CompilerError{Reason: "reference " + strconv.Quote(r.Name) + " used at incompatible field kinds", Range: r.Range}
		}
		d.used = true
		left, right := d.expr, cur.expr
		if d.isLink {
			left = ir.Attribute{Base: left, Attr: "_tag"}
			right = ir.Attribute{Base: right, Attr: "_tag"}
		}
		return ir.EQ(ir.Raw(ir.ExprString(left)), ir.Raw(ir.ExprString(right))), nil
	}
	c.scopes[len(c.scopes)-1].defs[r.Name] = &definition{expr: cur.expr, isLink: cur.isLink}
	return nil, nil
}

func (c *compiler) compileMatch(m *parse.Match, cur cursor) (ir.P, error) {
	// An enum value (Load, Store, ...) names a nullary constructor of an
	// enum sum; db holds the sum itself (ExprContext) but never the
	// individual constructors, so that classification comes from model
	// via BaseOf instead of a db lookup on m.Type directly.
	if base := c.model.BaseOf(m.Type); base != nil && base.IsEnum {
		if len(m.Positional) != 0 || len(m.Keyword) != 0 {
			return nil, &CompilerError{Reason: m.Type + " is an enum value and takes no arguments", Range: m.Range}
		}
		return ir.EQ(ir.Raw(ir.ExprString(cur.expr)), ir.Raw(strconv.Quote(m.Type))), nil
	}

	entry, ok := c.db.Lookup(m.Type)
	if !ok {
		return nil, &CompilerError{Reason: "unknown matcher " + strconv.Quote(m.Type), Range: m.Range}
	}

	fields := entry.Fields
	if len(m.Positional) > len(fields) {
		return nil, &CompilerError{Reason: fmt.Sprintf("too many positional arguments for %s (declares %d field(s))", m.Type, len(fields)), Range: m.Range}
	}

	bound := make(map[string]parse.Node, len(m.Positional)+len(m.Keyword))
	order := make([]string, 0, len(m.Positional)+len(m.Keyword))
	for i, v := range m.Positional {
		name := fields[i].Name
		bound[name] = v
		order = append(order, name)
	}
	for _, kw := range m.Keyword {
		if _, exists := bound[kw.Name]; exists {
			return nil, &CompilerError{Reason: "field " + strconv.Quote(kw.Name) + " bound twice", Range: m.Range}
		}
		if !hasField(fields, kw.Name) {
			return nil, &CompilerError{Reason: m.Type + " has no field " + strconv.Quote(kw.Name), Range: m.Range}
		}
		bound[kw.Name] = kw.Value
		order = append(order, kw.Name)
	}

	var preds []ir.P
	if !cur.isRoot {
		preds = append(preds, ir.Is(ir.Raw(ir.ExprString(cur.expr)), m.Type))
	}

	for _, name := range order {
		v := bound[name]
		if _, isSkip := v.(*parse.Skip); isSkip {
			continue
		}
		fe := fieldByName(fields, name)
		fieldCur := c.fieldCursor(cur, fe, narrowedType(v))

		var p ir.P
		var err error
		switch val := v.(type) {
		case *parse.ListMatch:
			p, err = c.compileListField(val, fieldCur)
		case *parse.SetMatch:
			p, err = c.compileSetField(val, fieldCur)
		default:
			p, err = c.compileNode(v, fieldCur)
		}
		if err != nil {
			return nil, err
		}
		if p != nil {
			preds = append(preds, p)
		}
	}

	if len(preds) == 0 {
		return nil, nil
	}
	return ir.And(preds...), nil
}

// fieldCursor computes the path reached by stepping through field fe
// from parent, applying a runtime type assertion when fe is a
// polymorphic link narrowed to a specific constructor, and array_get
// when fe is optional (spec.md §4.G compute_path).
func (c *compiler) fieldCursor(parent cursor, fe schemagen.FieldEntry, narrowed string) cursor {
	e := ir.Expr(ir.Attribute{Base: parent.expr, Attr: fe.Column})
	if fe.Qualifier == "optional" {
		e = ir.Call{Func: "array_get", Args: []ir.Expr{e}}
	}
	if fe.IsLink {
		if decl := c.model.Lookup(fe.Kind); decl != nil && decl.IsSum && !decl.IsEnum && narrowed != "" && narrowed != fe.Kind {
			e = ir.Cast{Type: narrowed, X: e}
		}
	}
	return cursor{expr: e, isLink: fe.IsLink}
}

func narrowedType(v parse.Node) string {
	if m, ok := v.(*parse.Match); ok {
		return m.Type
	}
	return ""
}

func hasField(fields []schemagen.FieldEntry, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func fieldByName(fields []schemagen.FieldEntry, name string) schemagen.FieldEntry {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return schemagen.FieldEntry{}
}

func formatConstant(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// compileListField implements the length verifier, fresh sequence_N
// binding, and per-position element compilation described by spec.md
// §4.G's list-matcher rule, including negative indexing for items
// trailing a single Expand() anchor.
func (c *compiler) compileListField(lm *parse.ListMatch, cur cursor) (ir.P, error) {
	expandIdx := -1
	for i, item := range lm.Items {
		if _, ok := item.(*parse.Expand); ok {
			if expandIdx != -1 {
				return nil, &CompilerError{Reason: "a list matcher may contain at most one Expand()", Range: lm.Range}
			}
			expandIdx = i
		}
	}

	L := len(lm.Items)
	countExpr := ir.Call{Func: "count", Args: []ir.Expr{cur.expr}}
	var lengthPred ir.P
	if expandIdx == -1 {
		lengthPred = ir.EQ(ir.Raw(ir.ExprString(countExpr)), ir.Raw(strconv.Itoa(L)))
	} else {
		lengthPred = ir.GTE(ir.Raw(ir.ExprString(countExpr)), ir.Raw(strconv.Itoa(L-1)))
	}

	c.seqNum++
	seqName := fmt.Sprintf("sequence_%d", c.seqNum)
	c.vars = append(c.vars, ir.KV{
		Key: seqName,
		Value: ir.Call{Func: "array_agg", Args: []ir.Expr{
			ir.StmtExpr{Stmt: &ir.WrappedStatement{Stmt: &ir.Select{
				From:    ir.ExprString(cur.expr),
				OrderBy: []string{"@index"},
			}}},
		}},
	})

	c.pushScope()
	preds := []ir.P{lengthPred}
	trailing := 0
	if expandIdx != -1 {
		trailing = L - expandIdx - 1
	}
	for i, item := range lm.Items {
		if _, ok := item.(*parse.Skip); ok {
			continue
		}
		if _, ok := item.(*parse.Expand); ok {
			continue
		}
		var idx int
		if expandIdx == -1 || i < expandIdx {
			idx = i
		} else {
			idx = -(trailing - (i - expandIdx - 1))
		}
		itemCur := cursor{expr: ir.Subscript{Base: ir.Name{Name: seqName}, Index: idx}, isLink: cur.isLink}
		p, err := c.compileNode(item, itemCur)
		if err != nil {
			_ = c.popScope(lm.Range)
			return nil, err
		}
		if p != nil {
			preds = append(preds, p)
		}
	}
	if err := c.popScope(lm.Range); err != nil {
		return nil, err
	}
	return ir.And(preds...), nil
}

// compileSetField implements the `Set(...)` shortcut: existential,
// unordered matching, the call-expression stand-in for the original
// `{...}` set-literal (spec.md §8 scenario S4).
func (c *compiler) compileSetField(sm *parse.SetMatch, cur cursor) (ir.P, error) {
	var preds []ir.P
	for _, item := range sm.Items {
		p, err := c.compileNode(item, cur)
		if err != nil {
			return nil, err
		}
		if p != nil {
			preds = append(preds, p)
		}
	}
	if len(preds) == 0 {
		return nil, nil
	}
	return &ir.CallExpr{Name: "any", Args: []string{ir.Or(preds...).String()}}, nil
}

func (c *compiler) compileBuiltin(b *parse.Builtin, cur cursor) (ir.P, error) {
	switch b.Name {
	case "ALL", "ANY":
		if len(b.Args) != 1 {
			return nil, &CompilerError{Reason: b.Name + " takes exactly one argument", Range: b.Range}
		}
		inner, err := c.compileNode(b.Args[0], cur)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, &CompilerError{Reason: b.Name + "'s argument produced no filter", Range: b.Range}
		}
		fn := "all"
		if b.Name == "ANY" {
			fn = "any"
		}
		return &ir.CallExpr{Name: fn, Args: []string{inner.String()}}, nil

	case "LEN":
		countExpr := ir.Call{Func: "count", Args: []ir.Expr{cur.expr}}
		var bounds []ir.P
		for _, kw := range b.Named {
			n, err := constantInt(kw.Value)
			if err != nil {
				return nil, &CompilerError{Reason: err.Error(), Range: b.Range}
			}
			switch kw.Name {
			case "min":
				bounds = append(bounds, ir.GTE(ir.Raw(ir.ExprString(countExpr)), ir.Raw(strconv.Itoa(n))))
			case "max":
				bounds = append(bounds, ir.LTE(ir.Raw(ir.ExprString(countExpr)), ir.Raw(strconv.Itoa(n))))
			default:
				return nil, &CompilerError{Reason: "LEN accepts only min and max", Range: b.Range}
			}
		}
		if len(bounds) == 0 {
			return nil, &CompilerError{Reason: "LEN requires at least one of min or max", Range: b.Range}
		}
		return ir.And(bounds...), nil

	case "META":
		return c.compileMeta(b, cur)

	default:
		return nil, &CompilerError{Reason: "unknown builtin " + strconv.Quote(b.Name), Range: b.Range}
	}
}

func constantInt(n parse.Node) (int, error) {
	c, ok := n.(*parse.Constant)
	if !ok {
		return 0, fmt.Errorf("expected an integer constant")
	}
	v, ok := c.Value.(int64)
	if !ok {
		return 0, fmt.Errorf("expected an integer constant")
	}
	return int(v), nil
}

// compileMeta implements `META(parent=M)`: M names the parent
// constructor and, via the one field M itself leaves unconstrained
// (bound to Skip()), the field this node must occupy on that parent.
func (c *compiler) compileMeta(b *parse.Builtin, cur cursor) (ir.P, error) {
	if len(b.Named) != 1 || b.Named[0].Name != "parent" {
		return nil, &CompilerError{Reason: "META requires a single parent= argument", Range: b.Range}
	}
	pm, ok := b.Named[0].Value.(*parse.Match)
	if !ok {
		return nil, &CompilerError{Reason: "META's parent= argument must be a match", Range: b.Range}
	}
	entry, ok := c.db.Lookup(pm.Type)
	if !ok {
		return nil, &CompilerError{Reason: "unknown matcher " + strconv.Quote(pm.Type), Range: b.Range}
	}
	fieldName, err := soleIgnoredField(pm, entry)
	if err != nil {
		return nil, err
	}
	tuple := fmt.Sprintf("(%d, %s)", entry.TypeID, strconv.Quote(fieldName))
	return &ir.BinaryExpr{
		Left:  ir.Raw(tuple),
		Op:    "in",
		Right: ir.Raw(ir.ExprString(ir.Attribute{Base: cur.expr, Attr: "parent_types"})),
	}, nil
}

func soleIgnoredField(pm *parse.Match, entry schemagen.TypeEntry) (string, error) {
	found := ""
	count := 0
	for i, v := range pm.Positional {
		if _, ok := v.(*parse.Skip); ok {
			if i >= len(entry.Fields) {
				return "", &CompilerError{Reason: "too many positional arguments for " + pm.Type, Range: pm.Range}
			}
			found = entry.Fields[i].Name
			count++
		}
	}
	for _, kw := range pm.Keyword {
		if _, ok := kw.Value.(*parse.Skip); ok {
			found = kw.Name
			count++
		}
	}
	if count != 1 {
		return "", &CompilerError{Reason: "META's parent argument must leave exactly one field unconstrained", Range: pm.Range}
	}
	return found, nil
}
