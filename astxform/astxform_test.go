package astxform

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `package p

func f() {
	x := 1 + 2
	y := 1 + 2
}
`

func TestTransformAssignsParentIndices(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", sample, 0)
	require.NoError(t, err)

	arena := Transform(file)
	require.NotEmpty(t, arena.Nodes)
	assert.Equal(t, "File", arena.Root().TypeName)
	assert.Equal(t, -1, arena.Root().ParentIndex)

	for _, n := range arena.Nodes[1:] {
		assert.GreaterOrEqual(t, n.ParentIndex, 0)
		assert.Less(t, n.ParentIndex, n.Index)
	}
}

func TestTransformParentTypesChain(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", sample, 0)
	require.NoError(t, err)

	arena := Transform(file)
	var binary *Node
	for _, n := range arena.Nodes {
		if n.TypeName == "BinaryExpr" {
			binary = n
			break
		}
	}
	require.NotNil(t, binary)
	assert.Contains(t, binary.ParentTypes, "File")
	assert.Contains(t, binary.ParentTypes, "FuncDecl")
}

func TestIdenticalSubtreesShareTag(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", sample, 0)
	require.NoError(t, err)

	arena := Transform(file)
	var tags []uint64
	for _, n := range arena.Nodes {
		if n.TypeName == "BinaryExpr" {
			tags = append(tags, n.Tag)
		}
	}
	require.Len(t, tags, 2)
	assert.Equal(t, tags[0], tags[1])
}

func TestDifferentSubtreesHaveDifferentTags(t *testing.T) {
	fset := token.NewFileSet()
	src := `package p

func f() {
	x := 1 + 2
	y := 1 + 3
}
`
	file, err := parser.ParseFile(fset, "sample.go", src, 0)
	require.NoError(t, err)

	arena := Transform(file)
	var tags []uint64
	for _, n := range arena.Nodes {
		if n.TypeName == "BinaryExpr" {
			tags = append(tags, n.Tag)
		}
	}
	require.Len(t, tags, 2)
	assert.NotEqual(t, tags[0], tags[1])
}

func TestTagIgnoresPosition(t *testing.T) {
	fset := token.NewFileSet()
	a, err := parser.ParseFile(fset, "a.go", "package p\n\nfunc f() { x := 1 + 2 }\n", 0)
	require.NoError(t, err)
	b, err := parser.ParseFile(fset, "b.go", "package p\n\n\n\nfunc f()   { x := 1 + 2 }\n", 0)
	require.NoError(t, err)

	arenaA := Transform(a)
	arenaB := Transform(b)
	assert.Equal(t, arenaA.Root().Tag, arenaB.Root().Tag)
}

func TestNeedsSentinel(t *testing.T) {
	assert.True(t, NeedsSentinel(0))
	assert.False(t, NeedsSentinel(1))
}

func TestLeadingComments(t *testing.T) {
	fset := token.NewFileSet()
	src := `package p

// f does a thing.
// It returns nothing.
func f() {}
`
	file, err := parser.ParseFile(fset, "doc.go", src, parser.ParseComments)
	require.NoError(t, err)

	decl := file.Decls[0]
	lines := LeadingComments(fset, file, decl)
	require.Len(t, lines, 2)
	assert.Equal(t, "f does a thing.", lines[0])
}
