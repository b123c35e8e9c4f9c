package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGrammar = `
module Test
{
    Expr = Ident(identifier name) attributes (int pos)
}
`

func TestRunGeneratesSchemaAndFieldDB(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.asdl")
	require.NoError(t, os.WriteFile(input, []byte(testGrammar), 0o644))

	schemaOut := filepath.Join(dir, "out.schema")
	fieldDBOut := filepath.Join(dir, "out.fielddb.json")

	code := run([]string{input, schemaOut, fieldDBOut})
	require.Equal(t, 0, code)

	schema, err := os.ReadFile(schemaOut)
	require.NoError(t, err)
	assert.Contains(t, string(schema), "CREATE TABLE idents")

	fieldDB, err := os.ReadFile(fieldDBOut)
	require.NoError(t, err)
	assert.Contains(t, string(fieldDB), "idents")
}

func TestRunRejectsMalformedGrammar(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.asdl")
	require.NoError(t, os.WriteFile(input, []byte("not a grammar {{{"), 0o644))

	code := run([]string{input, filepath.Join(dir, "o.schema"), filepath.Join(dir, "o.json")})
	assert.Equal(t, 1, code)
}

func TestRunRejectsBadUsage(t *testing.T) {
	assert.Equal(t, 2, run([]string{"only-one-arg"}))
}

func TestRunResetPreviewsTableNames(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.asdl")
	require.NoError(t, os.WriteFile(input, []byte(testGrammar), 0o644))

	code := run([]string{"-reset", input})
	assert.Equal(t, 0, code)
}
