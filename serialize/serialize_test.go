package serialize

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reizio/reiz/astxform"
	"github.com/reizio/reiz/grammar"
	"github.com/reizio/reiz/ir"
	"github.com/reizio/reiz/schemagen"
)

func testContext(t *testing.T, filename string) Context {
	t.Helper()
	model, err := grammar.Default()
	require.NoError(t, err)
	return Context{
		Model:    model,
		FieldDB:  schemagen.Generate(model),
		Filename: filename,
	}
}

const sample = `package p

func f() {
	x := 1 + 2
	g(x, 3)
}
`

func parseSample(t *testing.T) *astxform.Arena {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", sample, 0)
	require.NoError(t, err)
	return astxform.Transform(file)
}

func TestSerializeProducesModuleInsert(t *testing.T) {
	arena := parseSample(t)
	ctx := testContext(t, "sample.go")

	result, err := Serialize(arena, ctx)
	require.NoError(t, err)
	require.NotEmpty(t, result.ModuleID)

	last, ok := result.Statements[len(result.Statements)-1].(*ir.Insert)
	require.True(t, ok)
	assert.Equal(t, "files", last.Into)

	var filenameSet bool
	for _, kv := range last.Fields {
		if kv.Key == "filename" {
			filenameSet = true
			assert.Equal(t, `"sample.go"`, ir.ExprString(kv.Value))
		}
	}
	assert.True(t, filenameSet)
}

func TestSerializeChildrenPrecedeParents(t *testing.T) {
	arena := parseSample(t)
	ctx := testContext(t, "sample.go")

	result, err := Serialize(arena, ctx)
	require.NoError(t, err)

	seenBinary, seenFile := -1, -1
	for i, stmt := range result.Statements {
		insert := stmt.(*ir.Insert)
		switch insert.Into {
		case "binary_exprs":
			seenBinary = i
		case "files":
			seenFile = i
		}
	}
	require.GreaterOrEqual(t, seenBinary, 0)
	require.GreaterOrEqual(t, seenFile, 0)
	assert.Less(t, seenBinary, seenFile)
}

func TestSerializeSetsIndexOnCallArguments(t *testing.T) {
	arena := parseSample(t)
	ctx := testContext(t, "sample.go")

	result, err := Serialize(arena, ctx)
	require.NoError(t, err)

	var callArgInserts []*ir.Insert
	for _, stmt := range result.Statements {
		insert := stmt.(*ir.Insert)
		if insert.Into == "idents" || insert.Into == "basic_lits" {
			for _, kv := range insert.Fields {
				if kv.Key == "index" {
					callArgInserts = append(callArgInserts, insert)
				}
			}
		}
	}
	assert.NotEmpty(t, callArgInserts)
}

func TestSerializeModuleUpdatesCoverExprTables(t *testing.T) {
	arena := parseSample(t)
	ctx := testContext(t, "sample.go")

	result, err := Serialize(arena, ctx)
	require.NoError(t, err)
	require.NotEmpty(t, result.ModuleUpdates)

	var tables []string
	for _, stmt := range result.ModuleUpdates {
		upd := stmt.(*ir.Update)
		tables = append(tables, upd.Table)
		out := ir.Print(upd)
		assert.True(t, strings.Contains(out, "_module"))
	}
	assert.Contains(t, tables, "idents")
	assert.Contains(t, tables, "binary_exprs")
}

// binaryExprFields returns a binary_exprs insert's fields with the
// filename-dependent _module back-link stripped, so the remainder is
// exactly the tag-bearing, structure-only portion of the row.
func binaryExprFields(t *testing.T, arena *astxform.Arena, filename string) []ir.KV {
	t.Helper()
	ctx := testContext(t, filename)
	result, err := Serialize(arena, ctx)
	require.NoError(t, err)
	for _, stmt := range result.Statements {
		insert := stmt.(*ir.Insert)
		if insert.Into != "binary_exprs" {
			continue
		}
		var kept []ir.KV
		for _, kv := range insert.Fields {
			if kv.Key != "_module" {
				kept = append(kept, kv)
			}
		}
		return kept
	}
	t.Fatal("no binary_exprs insert found")
	return nil
}

func TestSerializeTagIsStableAcrossFilenames(t *testing.T) {
	arena := parseSample(t)

	a := binaryExprFields(t, arena, "a.go")
	b := binaryExprFields(t, arena, "b.go")
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("binary_exprs row differs only by filename should be byte-identical once _module is stripped, got diff (-a +b):\n%s", diff)
	}
}
