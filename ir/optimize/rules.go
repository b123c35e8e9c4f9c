package optimize

import "github.com/reizio/reiz/ir"

// Rule rewrites a single predicate node. It returns (p, false) if it
// declines to act on p (the guard didn't match), or the replacement
// node and true if it rewrote it.
type Rule func(ir.P) (ir.P, bool)

// counterOp holds the involutive comparator-negation table: applying
// it twice returns the original operator, so InvertComparator never
// needs a separate "undo" table.
var counterOp = map[string]string{
	"==": "!=",
	"!=": "==",
	">":  "<=",
	"<=": ">",
	"<":  ">=",
	">=": "<",
}

// InvertComparator rewrites `!(a op b)` into `a counterOp(op) b`,
// removing a NOT by picking the comparator's logical inverse.
func InvertComparator(p ir.P) (ir.P, bool) {
	u, ok := p.(*ir.UnaryExpr)
	if !ok || u.Op != "!" {
		return p, false
	}
	b, ok := u.X.(*ir.BinaryExpr)
	if !ok {
		return p, false
	}
	inv, ok := counterOp[b.Op]
	if !ok {
		return p, false
	}
	return &ir.BinaryExpr{Left: b.Left, Op: inv, Right: b.Right}, true
}

// EliminateDoubleNegation rewrites `!(!(x))` into `x`.
func EliminateDoubleNegation(p ir.P) (ir.P, bool) {
	outer, ok := p.(*ir.UnaryExpr)
	if !ok || outer.Op != "!" {
		return p, false
	}
	inner, ok := outer.X.(*ir.UnaryExpr)
	if !ok || inner.Op != "!" {
		return p, false
	}
	return inner.X, true
}

// CoalesceIsUnion rewrites `x IS A || x IS B || ...` — all disjuncts
// testing the same path against a single type — into one IsExpr over
// the union of types, matching the backend's native `IS (A | B)`
// union-type syntax instead of leaving it as a logical OR of tests.
func CoalesceIsUnion(p ir.P) (ir.P, bool) {
	n, ok := p.(*ir.NaryExpr)
	if !ok || n.Op != "||" || len(n.Terms) < 2 {
		return p, false
	}
	var path string
	var types []string
	for _, t := range n.Terms {
		is, ok := t.(*ir.IsExpr)
		if !ok {
			return p, false
		}
		if path == "" {
			path = is.X.String()
		} else if path != is.X.String() {
			return p, false
		}
		types = append(types, is.Types...)
	}
	is := n.Terms[0].(*ir.IsExpr)
	return ir.Is(is.X, types...), true
}

// Default is the rule set applied by Optimize, in priority order.
var Default = []Rule{
	EliminateDoubleNegation,
	InvertComparator,
	CoalesceIsUnion,
}
