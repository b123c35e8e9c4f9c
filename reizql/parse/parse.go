package parse

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
)

// Range is an inclusive source range, both ends 1-based, derived from
// a go/token.Position pair.
type Range struct {
	StartLine, StartCol int
	EndLine, EndCol      int
}

// Node is any parsed match-tree element.
type Node interface {
	Pos() Range
}

// Match is a call whose callee names a grammar type: positional
// arguments bind to the declared field order, Field(name, value) args
// bind by name. Neither binding is resolved here — that needs the
// loaded grammar's field order, which only the compiler has.
type Match struct {
	Type       string
	Positional []Node
	Keyword    []KeywordArg
	Range      Range
}

func (m *Match) Pos() Range { return m.Range }

// KeywordArg is one Field(name, value) binding inside a Match, List,
// or builtin call.
type KeywordArg struct {
	Name  string
	Value Node
}

// Ref is Ref("name"): the first occurrence in a scope defines a
// capture, later occurrences assert structural equality with it —
// reizql's call-expression stand-in for the original `~name` syntax
// (Go's expression grammar has no prefix operator to reuse for it).
type Ref struct {
	Name  string
	Range Range
}

func (r *Ref) Pos() Range { return r.Range }

// Skip is Skip(): "no constraint here," usable as a list-matcher slot
// or as a field's value — the call-expression stand-in for the
// original bare `...`.
type Skip struct{ Range Range }

func (s *Skip) Pos() Range { return s.Range }

// Expand is Expand(): the single anchor slot in a list matcher that
// absorbs every item not claimed by an explicit slot — the
// call-expression stand-in for the original `*...`.
type Expand struct{ Range Range }

func (e *Expand) Pos() Range { return e.Range }

// Or is the `|` binary operator: logical OR between two matchers.
type Or struct {
	Left, Right Node
	Range       Range
}

func (o *Or) Pos() Range { return o.Range }

// And is the `&` binary operator: logical AND between two matchers.
type And struct {
	Left, Right Node
	Range       Range
}

func (a *And) Pos() Range { return a.Range }

// Not is the unary `!` operator: negates its operand.
type Not struct {
	X     Node
	Range Range
}

func (n *Not) Pos() Range { return n.Range }

// NoneLit is the predeclared identifier nil, matching field absence.
type NoneLit struct{ Range Range }

func (n *NoneLit) Pos() Range { return n.Range }

// Constant is a literal int, float, bool, or quoted string, matched
// by equality.
type Constant struct {
	Value any
	Range Range
}

func (c *Constant) Pos() Range { return c.Range }

// Pattern is LIKE("...") or I("...") — a string-match predicate,
// case-sensitive for LIKE and case-insensitive for I, the
// call-expression stand-in for the original f-string/I() pair (Go has
// no f-string literal to repurpose for the default case).
type Pattern struct {
	Text            string
	CaseInsensitive bool
	Range           Range
}

func (p *Pattern) Pos() Range { return p.Range }

// ListMatch is List(item1, item2, ...): a sequence-field matcher.
// Items may themselves be Skip or Expand nodes.
type ListMatch struct {
	Items []Node
	Range Range
}

func (l *ListMatch) Pos() Range { return l.Range }

// SetMatch is Set(item1, item2, ...): the set-literal shortcut — a
// sequence field satisfied as soon as any one element matches any one
// of the given items, rather than bound positionally item-by-item. The
// call-expression stand-in for the original `{...}` set-literal
// shorthand (Go has no set-literal syntax to reuse for it).
type SetMatch struct {
	Items []Node
	Range Range
}

func (s *SetMatch) Pos() Range { return s.Range }

// Builtin is ALL(x), ANY(x), LEN(Field("min", n), ...), or
// META(Field("parent", m)).
type Builtin struct {
	Name  string
	Args  []Node
	Named []KeywordArg
	Range Range
}

func (b *Builtin) Pos() Range { return b.Range }

// Parse parses one match expression, returning a SyntaxError (wrapping
// go/parser's own position-bearing error, or this package's own
// shape-rejection) on failure.
func Parse(src string) (Node, error) {
	fset := token.NewFileSet()
	expr, err := parser.ParseExprFrom(fset, "<query>", src, 0)
	if err != nil {
		return nil, convertParseError(err)
	}
	return fold(fset, expr)
}

func convertParseError(err error) error {
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		first := list[0]
		return &SyntaxError{
			Reason: first.Msg,
			Range: Range{
				StartLine: first.Pos.Line, StartCol: first.Pos.Column,
				EndLine: first.Pos.Line, EndCol: first.Pos.Column,
			},
		}
	}
	return &SyntaxError{Reason: err.Error()}
}

func rangeOf(fset *token.FileSet, n ast.Node) Range {
	start := fset.Position(n.Pos())
	end := fset.Position(n.End())
	endCol := end.Column - 1
	if endCol < start.Column {
		endCol = start.Column
	}
	return Range{
		StartLine: start.Line, StartCol: start.Column,
		EndLine: end.Line, EndCol: endCol,
	}
}

func fold(fset *token.FileSet, e ast.Expr) (Node, error) {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return fold(fset, e.X)

	case *ast.Ident:
		if e.Name == "nil" {
			return &NoneLit{Range: rangeOf(fset, e)}, nil
		}
		return nil, &SyntaxError{Reason: "unexpected bare identifier " + strconv.Quote(e.Name), Range: rangeOf(fset, e)}

	case *ast.BasicLit:
		return foldBasicLit(fset, e)

	case *ast.BinaryExpr:
		return foldBinary(fset, e)

	case *ast.UnaryExpr:
		if e.Op != token.NOT {
			return nil, &SyntaxError{Reason: "unsupported unary operator " + e.Op.String(), Range: rangeOf(fset, e)}
		}
		x, err := fold(fset, e.X)
		if err != nil {
			return nil, err
		}
		return &Not{X: x, Range: rangeOf(fset, e)}, nil

	case *ast.CallExpr:
		return foldCall(fset, e)

	default:
		return nil, &SyntaxError{Reason: "unsupported expression shape", Range: rangeOf(fset, e)}
	}
}

func foldBasicLit(fset *token.FileSet, lit *ast.BasicLit) (Node, error) {
	r := rangeOf(fset, lit)
	switch lit.Kind {
	case token.STRING:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return nil, &SyntaxError{Reason: "malformed string literal: " + err.Error(), Range: r}
		}
		return &Constant{Value: s, Range: r}, nil
	case token.INT:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return nil, &SyntaxError{Reason: "malformed integer literal: " + err.Error(), Range: r}
		}
		return &Constant{Value: n, Range: r}, nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return nil, &SyntaxError{Reason: "malformed float literal: " + err.Error(), Range: r}
		}
		return &Constant{Value: f, Range: r}, nil
	default:
		return nil, &SyntaxError{Reason: "unsupported literal kind " + lit.Kind.String(), Range: r}
	}
}

func foldBinary(fset *token.FileSet, b *ast.BinaryExpr) (Node, error) {
	r := rangeOf(fset, b)
	left, err := fold(fset, b.X)
	if err != nil {
		return nil, err
	}
	right, err := fold(fset, b.Y)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case token.OR:
		return &Or{Left: left, Right: right, Range: r}, nil
	case token.AND:
		return &And{Left: left, Right: right, Range: r}, nil
	default:
		return nil, &SyntaxError{Reason: "unsupported binary operator " + b.Op.String(), Range: r}
	}
}

func foldCall(fset *token.FileSet, call *ast.CallExpr) (Node, error) {
	r := rangeOf(fset, call)
	ident, ok := call.Fun.(*ast.Ident)
	if !ok {
		return nil, &SyntaxError{Reason: "call target must be a plain name", Range: r}
	}

	switch ident.Name {
	case "Ref":
		return foldRef(fset, call, r)
	case "Skip":
		if len(call.Args) != 0 {
			return nil, &SyntaxError{Reason: "Skip takes no arguments", Range: r}
		}
		return &Skip{Range: r}, nil
	case "Expand":
		if len(call.Args) != 0 {
			return nil, &SyntaxError{Reason: "Expand takes no arguments", Range: r}
		}
		return &Expand{Range: r}, nil
	case "LIKE", "I":
		return foldPattern(fset, call, r, ident.Name == "I")
	case "List":
		return foldList(fset, call, r)
	case "Set":
		return foldSet(fset, call, r)
	case "Field":
		return nil, &SyntaxError{Reason: "Field(...) is only valid as an argument to a match or builtin call", Range: r}
	case "ALL", "ANY", "LEN", "META":
		return foldBuiltin(fset, call, r, ident.Name)
	default:
		return foldMatch(fset, call, r, ident.Name)
	}
}

func foldRef(fset *token.FileSet, call *ast.CallExpr, r Range) (Node, error) {
	if len(call.Args) != 1 {
		return nil, &SyntaxError{Reason: "Ref takes exactly one string argument", Range: r}
	}
	lit, ok := call.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return nil, &SyntaxError{Reason: "Ref's argument must be a string literal", Range: r}
	}
	name, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil, &SyntaxError{Reason: "malformed Ref name: " + err.Error(), Range: r}
	}
	return &Ref{Name: name, Range: r}, nil
}

func foldPattern(fset *token.FileSet, call *ast.CallExpr, r Range, caseInsensitive bool) (Node, error) {
	if len(call.Args) != 1 {
		return nil, &SyntaxError{Reason: "pattern builtin takes exactly one string argument", Range: r}
	}
	lit, ok := call.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return nil, &SyntaxError{Reason: "pattern builtin's argument must be a string literal", Range: r}
	}
	text, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil, &SyntaxError{Reason: "malformed pattern literal: " + err.Error(), Range: r}
	}
	return &Pattern{Text: text, CaseInsensitive: caseInsensitive, Range: r}, nil
}

func foldList(fset *token.FileSet, call *ast.CallExpr, r Range) (Node, error) {
	items := make([]Node, 0, len(call.Args))
	for _, a := range call.Args {
		item, err := fold(fset, a)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &ListMatch{Items: items, Range: r}, nil
}

func foldSet(fset *token.FileSet, call *ast.CallExpr, r Range) (Node, error) {
	items := make([]Node, 0, len(call.Args))
	for _, a := range call.Args {
		item, err := fold(fset, a)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &SetMatch{Items: items, Range: r}, nil
}

func foldBuiltin(fset *token.FileSet, call *ast.CallExpr, r Range, name string) (Node, error) {
	var args []Node
	var named []KeywordArg
	seen := map[string]bool{}
	for _, a := range call.Args {
		if kw, ok, err := asKeywordArg(fset, a); err != nil {
			return nil, err
		} else if ok {
			if seen[kw.Name] {
				return nil, &SyntaxError{Reason: "duplicate named argument " + strconv.Quote(kw.Name), Range: r}
			}
			seen[kw.Name] = true
			named = append(named, kw)
			continue
		}
		node, err := fold(fset, a)
		if err != nil {
			return nil, err
		}
		args = append(args, node)
	}
	if name == "LEN" && len(named) == 0 {
		return nil, &SyntaxError{Reason: "LEN requires at least one of min or max", Range: r}
	}
	return &Builtin{Name: name, Args: args, Named: named, Range: r}, nil
}

func foldMatch(fset *token.FileSet, call *ast.CallExpr, r Range, typeName string) (Node, error) {
	var positional []Node
	var keyword []KeywordArg
	seen := map[string]bool{}
	for _, a := range call.Args {
		if kw, ok, err := asKeywordArg(fset, a); err != nil {
			return nil, err
		} else if ok {
			if seen[kw.Name] {
				return nil, &SyntaxError{Reason: "duplicate field " + strconv.Quote(kw.Name), Range: r}
			}
			seen[kw.Name] = true
			keyword = append(keyword, kw)
			continue
		}
		node, err := fold(fset, a)
		if err != nil {
			return nil, err
		}
		positional = append(positional, node)
	}
	return &Match{Type: typeName, Positional: positional, Keyword: keyword, Range: r}, nil
}

// asKeywordArg recognizes Field("name", value) and folds it into a
// KeywordArg; ok is false (with err nil) when a isn't shaped that way,
// so the caller falls through to ordinary positional folding.
func asKeywordArg(fset *token.FileSet, a ast.Expr) (KeywordArg, bool, error) {
	call, ok := a.(*ast.CallExpr)
	if !ok {
		return KeywordArg{}, false, nil
	}
	ident, ok := call.Fun.(*ast.Ident)
	if !ok || ident.Name != "Field" {
		return KeywordArg{}, false, nil
	}
	if len(call.Args) != 2 {
		return KeywordArg{}, false, &SyntaxError{Reason: "Field takes exactly two arguments", Range: rangeOf(fset, call)}
	}
	lit, ok := call.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return KeywordArg{}, false, &SyntaxError{Reason: "Field's first argument must be a string literal", Range: rangeOf(fset, call)}
	}
	name, err := strconv.Unquote(lit.Value)
	if err != nil {
		return KeywordArg{}, false, &SyntaxError{Reason: "malformed field name: " + err.Error(), Range: rangeOf(fset, call)}
	}
	value, err := fold(fset, call.Args[1])
	if err != nil {
		return KeywordArg{}, false, err
	}
	return KeywordArg{Name: name, Value: value}, true, nil
}
