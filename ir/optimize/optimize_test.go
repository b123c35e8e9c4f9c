package optimize

import (
	"testing"

	"github.com/reizio/reiz/ir"

	"github.com/stretchr/testify/assert"
)

func TestInvertComparator(t *testing.T) {
	p := ir.Not(ir.FieldGT("age", 30))
	got, ok := InvertComparator(p)
	assert.True(t, ok)
	assert.Equal(t, `age <= 30`, got.String())
}

func TestInvertComparatorDeclinesNonComparator(t *testing.T) {
	p := ir.Not(ir.HasEdge("owner"))
	_, ok := InvertComparator(p)
	assert.False(t, ok)
}

func TestEliminateDoubleNegation(t *testing.T) {
	p := ir.Not(ir.Not(ir.FieldEQ("name", "x")))
	got, ok := EliminateDoubleNegation(p)
	assert.True(t, ok)
	assert.Equal(t, `name == "x"`, got.String())
}

func TestCoalesceIsUnion(t *testing.T) {
	p := ir.Or(
		ir.Is(ir.F("node"), "BinaryExpr"),
		ir.Is(ir.F("node"), "UnaryExpr"),
	)
	got, ok := CoalesceIsUnion(p)
	assert.True(t, ok)
	assert.Equal(t, `node IS BinaryExpr | UnaryExpr`, got.String())
}

func TestCoalesceIsUnionDeclinesDifferentPaths(t *testing.T) {
	p := ir.Or(
		ir.Is(ir.F("a"), "BinaryExpr"),
		ir.Is(ir.F("b"), "UnaryExpr"),
	)
	_, ok := CoalesceIsUnion(p)
	assert.False(t, ok)
}

func TestOptimizeFixpoint(t *testing.T) {
	// !(!(age > 30)): children are rewritten first, so InvertComparator
	// turns the inner !(age > 30) into age <= 30, then inverts the outer
	// !(age <= 30) back to age > 30.
	p := ir.Not(ir.Not(ir.FieldGT("age", 30)))
	got := Optimize(p)
	assert.Equal(t, `age > 30`, got.String())
}

func TestOptimizeInvertsNestedComparator(t *testing.T) {
	p := ir.Not(ir.FieldLTE("score", 10))
	got := Optimize(p)
	assert.Equal(t, `score > 10`, got.String())
}

func TestOptimizeRecursesIntoChildren(t *testing.T) {
	p := ir.And(
		ir.Not(ir.Not(ir.FieldEQ("a", 1))),
		ir.Not(ir.FieldGT("b", 2)),
	)
	got := Optimize(p)
	assert.Equal(t, `a == 1 && b <= 2`, got.String())
}
