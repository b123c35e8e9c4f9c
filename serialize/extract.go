package serialize

import "go/ast"

// rawValue is one field's extracted value before it is turned into an
// ir.Expr. Exactly one of the four forms is populated; Absent means an
// optional field had nothing to record, so the field is omitted from
// the INSERT's field list entirely rather than written as a null.
type rawValue struct {
	Scalar    string
	HasScalar bool
	Scalars   []string
	Node      ast.Node
	Nodes     []ast.Node
	Absent    bool
}

func scalar(s string) rawValue    { return rawValue{Scalar: s, HasScalar: true} }
func scalars(ss []string) rawValue { return rawValue{Scalars: ss} }
func single(n ast.Node) rawValue  { return rawValue{Node: n} }
func many(ns []ast.Node) rawValue {
	return rawValue{Nodes: ns}
}
func absent() rawValue { return rawValue{Absent: true} }

// optionalNode wraps an optional interface-typed AST field (Init,
// Cond, Type, ...). go/parser only ever leaves these as a literal nil
// interface when absent, never a typed nil pointer, so a plain
// comparison is enough.
func optionalNode(n ast.Node) rawValue {
	if n == nil {
		return absent()
	}
	return single(n)
}

// optionalIdentScalar extracts the primitive text of an optional
// identifier-kinded field backed by a *ast.Ident, e.g. BranchStmt's
// label or ImportSpec's local alias.
func optionalIdentScalar(id *ast.Ident) rawValue {
	if id == nil {
		return absent()
	}
	return scalar(id.Name)
}

func identNames(idents []*ast.Ident) []string {
	out := make([]string, len(idents))
	for i, id := range idents {
		out[i] = id.Name
	}
	return out
}

func nodeList[T ast.Node](in []T) []ast.Node {
	out := make([]ast.Node, len(in))
	for i, n := range in {
		out[i] = n
	}
	return out
}

func fieldList(fl *ast.FieldList) []ast.Node {
	if fl == nil {
		return nil
	}
	return nodeList(fl.List)
}

// extractFields dispatches on n's dynamic type and returns its
// grammar fields keyed by the exact name declared in the ASDL source
// (go_grammar.go's embedded grammar), so the result can be matched
// directly against a schemagen.FieldEntry by name.
func extractFields(n ast.Node) (map[string]rawValue, bool) {
	switch v := n.(type) {
	case *ast.Ident:
		return map[string]rawValue{"name": scalar(v.Name)}, true
	case *ast.BasicLit:
		return map[string]rawValue{
			"kind":  scalar(v.Kind.String()),
			"value": scalar(v.Value),
		}, true
	case *ast.BinaryExpr:
		return map[string]rawValue{
			"x":  single(v.X),
			"op": scalar(v.Op.String()),
			"y":  single(v.Y),
		}, true
	case *ast.UnaryExpr:
		return map[string]rawValue{
			"op": scalar(v.Op.String()),
			"x":  single(v.X),
		}, true
	case *ast.CallExpr:
		return map[string]rawValue{
			"fun":  single(v.Fun),
			"args": many(nodeList(v.Args)),
		}, true
	case *ast.SelectorExpr:
		return map[string]rawValue{
			"x":   single(v.X),
			"sel": scalar(v.Sel.Name),
		}, true
	case *ast.IndexExpr:
		return map[string]rawValue{
			"x":     single(v.X),
			"index": single(v.Index),
		}, true
	case *ast.CompositeLit:
		return map[string]rawValue{
			"typ":  optionalNode(v.Type),
			"elts": many(nodeList(v.Elts)),
		}, true
	case *ast.KeyValueExpr:
		return map[string]rawValue{
			"key":   single(v.Key),
			"value": single(v.Value),
		}, true
	case *ast.StarExpr:
		return map[string]rawValue{"x": single(v.X)}, true
	case *ast.ParenExpr:
		return map[string]rawValue{"x": single(v.X)}, true
	case *ast.SliceExpr:
		return map[string]rawValue{
			"x":    single(v.X),
			"low":  optionalNode(v.Low),
			"high": optionalNode(v.High),
		}, true
	case *ast.FuncLit:
		return map[string]rawValue{
			"params":  many(fieldList(v.Type.Params)),
			"results": many(fieldList(v.Type.Results)),
			"body":    many(nodeList(v.Body.List)),
		}, true

	case *ast.AssignStmt:
		return map[string]rawValue{
			"lhs": many(nodeList(v.Lhs)),
			"tok": scalar(v.Tok.String()),
			"rhs": many(nodeList(v.Rhs)),
		}, true
	case *ast.ExprStmt:
		return map[string]rawValue{"x": single(v.X)}, true
	case *ast.IfStmt:
		return map[string]rawValue{
			"init":   optionalNode(v.Init),
			"cond":   single(v.Cond),
			"body":   many(nodeList(v.Body.List)),
			"orelse": many(elseBranch(v.Else)),
		}, true
	case *ast.ForStmt:
		return map[string]rawValue{
			"init": optionalNode(v.Init),
			"cond": optionalNode(v.Cond),
			"post": optionalNode(v.Post),
			"body": many(nodeList(v.Body.List)),
		}, true
	case *ast.RangeStmt:
		return map[string]rawValue{
			"key":   optionalNode(v.Key),
			"value": optionalNode(v.Value),
			"tok":   scalar(v.Tok.String()),
			"x":     single(v.X),
			"body":  many(nodeList(v.Body.List)),
		}, true
	case *ast.ReturnStmt:
		return map[string]rawValue{"results": many(nodeList(v.Results))}, true
	case *ast.BlockStmt:
		return map[string]rawValue{"list": many(nodeList(v.List))}, true
	case *ast.DeclStmt:
		return map[string]rawValue{"decl": single(v.Decl)}, true
	case *ast.GoStmt:
		return map[string]rawValue{"call": single(v.Call)}, true
	case *ast.DeferStmt:
		return map[string]rawValue{"call": single(v.Call)}, true
	case *ast.BranchStmt:
		return map[string]rawValue{
			"tok":   scalar(v.Tok.String()),
			"label": optionalIdentScalar(v.Label),
		}, true

	case *ast.FuncDecl:
		return map[string]rawValue{
			"name":       scalar(v.Name.Name),
			"decorators": many(commentNodes(v.Doc)),
			"params":     many(fieldList(v.Type.Params)),
			"results":    many(fieldList(v.Type.Results)),
			"body":       optionalBlockNode(v.Body),
		}, true
	case *ast.GenDecl:
		return map[string]rawValue{
			"tok":   scalar(v.Tok.String()),
			"specs": many(specNodes(v.Specs)),
		}, true

	case *ast.ImportSpec:
		path := ""
		if v.Path != nil {
			path = v.Path.Value
		}
		return map[string]rawValue{
			"path": scalar(path),
			"name": optionalIdentScalar(v.Name),
		}, true
	case *ast.ValueSpec:
		return map[string]rawValue{
			"names":  scalars(identNames(v.Names)),
			"typ":    optionalNode(v.Type),
			"values": many(nodeList(v.Values)),
		}, true
	case *ast.TypeSpec:
		return map[string]rawValue{
			"name": scalar(v.Name.Name),
			"typ":  single(v.Type),
		}, true

	case *ast.Field:
		name := absent()
		if len(v.Names) > 0 {
			name = scalar(v.Names[0].Name)
		}
		return map[string]rawValue{
			"name": name,
			"typ":  single(v.Type),
		}, true
	case *ast.Comment:
		return map[string]rawValue{"text": scalar(v.Text)}, true

	default:
		return nil, false
	}
}

func elseBranch(e ast.Stmt) []ast.Node {
	if e == nil {
		return nil
	}
	if block, ok := e.(*ast.BlockStmt); ok {
		return nodeList(block.List)
	}
	return []ast.Node{e}
}

func optionalBlockNode(b *ast.BlockStmt) rawValue {
	if b == nil {
		return absent()
	}
	return single(b)
}

func commentNodes(g *ast.CommentGroup) []ast.Node {
	if g == nil {
		return nil
	}
	return nodeList(g.List)
}

func specNodes(specs []ast.Spec) []ast.Node {
	return nodeList(specs)
}
