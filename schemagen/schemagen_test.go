package schemagen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/reizio/reiz/grammar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) *grammar.Model {
	t.Helper()
	m, err := grammar.LoadString(`
module Test
{
    Expr = Ident(identifier name)
         | BinaryExpr(Expr x, identifier op, Expr y)
         attributes (int pos, Module _module)

    ExprContext = Load() | Store()
    Module(string filename)
}
`)
	require.NoError(t, err)
	return m
}

func TestGenerateFieldDB(t *testing.T) {
	db := Generate(testModel(t))

	ident, ok := db.Lookup("Ident")
	require.True(t, ok)
	assert.Equal(t, "idents", ident.Table)
	require.Len(t, ident.Fields, 3) // name + pos/_module attributes
	assert.Equal(t, "name", ident.Fields[0].Column)

	ctx, ok := db.Lookup("ExprContext")
	require.True(t, ok)
	assert.True(t, ctx.IsEnum)
	assert.ElementsMatch(t, []string{"Load", "Store"}, ctx.Variants)
}

func TestGenerateRewritesReservedColumns(t *testing.T) {
	m, err := grammar.LoadString(`
module Test
{
    Field(identifier select, identifier name)
}
`)
	require.NoError(t, err)
	db := Generate(m)
	entry, ok := db.Lookup("Field")
	require.True(t, ok)
	assert.Equal(t, "go_select", entry.Fields[0].Column)
}

func TestWriteJSON(t *testing.T) {
	db := Generate(testModel(t))
	var buf bytes.Buffer
	require.NoError(t, db.WriteJSON(&buf))
	assert.True(t, strings.Contains(buf.String(), `"idents"`) || strings.Contains(buf.String(), "idents"))
}

func TestGeneratePostgresDDL(t *testing.T) {
	db := Generate(testModel(t))
	ddl := GeneratePostgresDDL(db)
	assert.True(t, strings.Contains(ddl, "CREATE TABLE idents"))
	assert.True(t, strings.Contains(ddl, "CREATE TABLE binary_exprs"))
	assert.True(t, strings.Contains(ddl, "variant text NOT NULL"))
}

func TestGenerateConstants(t *testing.T) {
	db := Generate(testModel(t))
	f, err := GenerateConstants("schema", db)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	assert.True(t, strings.Contains(buf.String(), "TypeIDIdent"))
}

func TestAtlasSchema(t *testing.T) {
	db := Generate(testModel(t))
	s := AtlasSchema(db)
	require.NotNil(t, s)
	names := make([]string, 0, len(s.Tables))
	for _, tbl := range s.Tables {
		names = append(names, tbl.Name)
	}
	assert.Contains(t, names, "idents")
	assert.Contains(t, names, "expr_contexts")
}
