package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectRender(t *testing.T) {
	limit := 10
	sel := &Select{
		From:   "Expr",
		Filter: FieldEQ("name", "x"),
		Limit:  &limit,
	}
	out := Print(sel)
	assert.True(t, strings.Contains(out, "SELECT"))
	assert.True(t, strings.Contains(out, "Expr"))
	assert.True(t, strings.Contains(out, `FILTER`))
	assert.True(t, strings.Contains(out, `name == "x"`))
	assert.True(t, strings.Contains(out, "LIMIT 10"))
}

func TestInsertRender(t *testing.T) {
	ins := &Insert{
		Into: "BinaryExpr",
		Fields: []KV{
			{Key: "op", Value: Literal{Text: `"Add"`}},
			{Key: "_tag", Value: Literal{Text: "12345"}},
		},
	}
	out := Print(ins)
	assert.True(t, strings.HasPrefix(out, "INSERT BinaryExpr {"))
	assert.True(t, strings.Contains(out, `op := "Add",`))
	assert.True(t, strings.Contains(out, "_tag := 12345,"))
	assert.True(t, strings.HasSuffix(out, "}"))
}

func TestForWrapsBodyInUnion(t *testing.T) {
	f := &For{
		Var: "arg",
		In:  Attribute{Base: Name{Name: "CallExpr"}, Attr: "args"},
		Body: &Select{
			From:   "arg",
			Filter: FieldEQ("name", "x"),
		},
	}
	out := Print(f)
	assert.True(t, strings.HasPrefix(out, "FOR arg IN CallExpr.args"))
	assert.True(t, strings.Contains(out, "UNION ("))
	assert.True(t, strings.Contains(out, "SELECT"))
}

func TestWithBindingsPrecedeBody(t *testing.T) {
	w := &With{
		Bindings: []KV{
			{Key: "target", Value: Name{Name: "CallExpr"}},
		},
		Body: &Select{From: "target"},
	}
	out := Print(w)
	assert.True(t, strings.HasPrefix(out, "WITH"))
	withIdx := strings.Index(out, "target := CallExpr,")
	selectIdx := strings.Index(out, "SELECT")
	assert.True(t, withIdx >= 0 && selectIdx > withIdx)
}

func TestCastAndExistence(t *testing.T) {
	c := Cast{Type: "BinaryExpr", X: Name{Name: "node"}}
	assert.Equal(t, "<BinaryExpr>node", ExprString(c))

	e := Existence{X: Attribute{Base: Name{Name: "node"}, Attr: "orelse"}}
	assert.Equal(t, "EXISTS (node.orelse)", ExprString(e))
}

func TestShapeRender(t *testing.T) {
	s := Shape{
		Base:  Attribute{Base: Name{Name: "item"}, Attr: "1"},
		Props: []KV{{Key: "@index", Value: Attribute{Base: Name{Name: "item"}, Attr: "0"}}},
	}
	out := ExprString(s)
	assert.True(t, strings.HasPrefix(out, "item.1 {"))
	assert.True(t, strings.Contains(out, "@index := item.0,"))
}

func TestExprAsStmtInForBody(t *testing.T) {
	f := &For{
		Var: "item",
		In:  Call{Func: "enumerate", Args: []Expr{Name{Name: "items"}}},
		Body: &ExprAsStmt{X: Shape{
			Base:  Attribute{Base: Name{Name: "item"}, Attr: "1"},
			Props: []KV{{Key: "@index", Value: Attribute{Base: Name{Name: "item"}, Attr: "0"}}},
		}},
	}
	out := Print(f)
	assert.True(t, strings.HasPrefix(out, "FOR item IN enumerate(items)"))
	assert.True(t, strings.Contains(out, "item.1 {"))
}

func TestCompareAndUnionExpr(t *testing.T) {
	cmp := Compare{Left: Name{Name: "a"}, Op: "=", Right: Name{Name: "b"}}
	assert.Equal(t, "(a = b)", ExprString(cmp))

	u := Union{Left: Name{Name: "a"}, Right: Name{Name: "b"}}
	assert.Equal(t, "(a UNION b)", ExprString(u))
}
