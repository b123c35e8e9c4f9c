package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchPositionalAndKeyword(t *testing.T) {
	n, err := Parse(`FunctionDef("main", Field("body", List(Skip())))`)
	require.NoError(t, err)
	m, ok := n.(*Match)
	require.True(t, ok)
	assert.Equal(t, "FunctionDef", m.Type)
	require.Len(t, m.Positional, 1)
	assert.Equal(t, "main", m.Positional[0].(*Constant).Value)
	require.Len(t, m.Keyword, 1)
	assert.Equal(t, "body", m.Keyword[0].Name)
	list, ok := m.Keyword[0].Value.(*ListMatch)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	_, isSkip := list.Items[0].(*Skip)
	assert.True(t, isSkip)
}

func TestParseDuplicateFieldErrors(t *testing.T) {
	_, err := Parse(`FunctionDef(Field("name", "a"), Field("name", "b"))`)
	require.Error(t, err)
	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Contains(t, synErr.Reason, "duplicate field")
}

func TestParseOrAndAndNot(t *testing.T) {
	n, err := Parse(`!(FunctionDef("a") | ClassDef("b")) & Module()`)
	require.NoError(t, err)
	and, ok := n.(*And)
	require.True(t, ok)
	not, ok := and.Left.(*Not)
	require.True(t, ok)
	or, ok := not.X.(*Or)
	require.True(t, ok)
	assert.Equal(t, "FunctionDef", or.Left.(*Match).Type)
	assert.Equal(t, "ClassDef", or.Right.(*Match).Type)
	assert.Equal(t, "Module", and.Right.(*Match).Type)
}

func TestParseNoneAndEnumCall(t *testing.T) {
	n, err := Parse(`FunctionDef(nil, Field("ctx", Load()))`)
	require.NoError(t, err)
	m := n.(*Match)
	_, isNone := m.Positional[0].(*NoneLit)
	assert.True(t, isNone)
	enumCall, ok := m.Keyword[0].Value.(*Match)
	require.True(t, ok)
	assert.Equal(t, "Load", enumCall.Type)
	assert.Empty(t, enumCall.Positional)
	assert.Empty(t, enumCall.Keyword)
}

func TestParseRefDefinesAndUses(t *testing.T) {
	n, err := Parse(`Assign(Field("value", Ref("x")), Field("target", Ref("x")))`)
	require.NoError(t, err)
	m := n.(*Match)
	require.Len(t, m.Keyword, 2)
	first, ok := m.Keyword[0].Value.(*Ref)
	require.True(t, ok)
	assert.Equal(t, "x", first.Name)
}

func TestParsePatternBuiltins(t *testing.T) {
	n, err := Parse(`LIKE("foo%")`)
	require.NoError(t, err)
	pat := n.(*Pattern)
	assert.Equal(t, "foo%", pat.Text)
	assert.False(t, pat.CaseInsensitive)

	n, err = Parse(`I("FOO%")`)
	require.NoError(t, err)
	pat = n.(*Pattern)
	assert.True(t, pat.CaseInsensitive)
}

func TestParseLenRequiresAtLeastOneBound(t *testing.T) {
	_, err := Parse(`LEN()`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one")

	n, err := Parse(`LEN(Field("min", 1), Field("max", 5))`)
	require.NoError(t, err)
	b := n.(*Builtin)
	assert.Equal(t, "LEN", b.Name)
	require.Len(t, b.Named, 2)
}

func TestParseMetaBuiltin(t *testing.T) {
	n, err := Parse(`META(Field("parent", FunctionDef(Field("body", Skip()))))`)
	require.NoError(t, err)
	b := n.(*Builtin)
	assert.Equal(t, "META", b.Name)
	require.Len(t, b.Named, 1)
	assert.Equal(t, "parent", b.Named[0].Name)
}

func TestParseExpandInList(t *testing.T) {
	n, err := Parse(`List(Constant1(), Expand(), Constant2())`)
	require.NoError(t, err)
	list := n.(*ListMatch)
	require.Len(t, list.Items, 3)
	_, isExpand := list.Items[1].(*Expand)
	assert.True(t, isExpand)
}

func TestParseRejectsInvalidSyntax(t *testing.T) {
	_, err := Parse(`FunctionDef(`)
	require.Error(t, err)
	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Greater(t, synErr.Range.StartLine, 0)
}

func TestParseRejectsBareIdentifier(t *testing.T) {
	_, err := Parse(`someBareName`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bare identifier")
}

func TestParseRejectsFieldOutsideCall(t *testing.T) {
	_, err := Parse(`Field("x", 1)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field(...)")
}

func TestParseConstants(t *testing.T) {
	n, err := Parse(`Num(42, 3.5, "hi")`)
	require.NoError(t, err)
	m := n.(*Match)
	assert.Equal(t, int64(42), m.Positional[0].(*Constant).Value)
	assert.Equal(t, 3.5, m.Positional[1].(*Constant).Value)
	assert.Equal(t, "hi", m.Positional[2].(*Constant).Value)
}
