package optimize

import "github.com/reizio/reiz/ir"

// Optimize rewrites p to a fixpoint using Default, walking children
// first so a rewrite deep in the tree (e.g. inverting a comparator
// under a NOT) can expose a rewrite higher up (e.g. the IS-union it
// was blocking).
func Optimize(p ir.P) ir.P { return OptimizeWith(p, Default) }

// OptimizeWith is Optimize parameterized over an explicit rule set,
// for tests that exercise a single rule in isolation.
func OptimizeWith(p ir.P, rules []Rule) ir.P {
	p = rewriteChildren(p, rules)
	for {
		changed := false
		for _, rule := range rules {
			if np, ok := rule(p); ok {
				p = np
				changed = true
			}
		}
		if !changed {
			return p
		}
		p = rewriteChildren(p, rules)
	}
}

func rewriteChildren(p ir.P, rules []Rule) ir.P {
	switch n := p.(type) {
	case *ir.UnaryExpr:
		return &ir.UnaryExpr{Op: n.Op, X: OptimizeWith(n.X, rules)}
	case *ir.NaryExpr:
		terms := make([]ir.P, len(n.Terms))
		for i, t := range n.Terms {
			terms[i] = OptimizeWith(t, rules)
		}
		return &ir.NaryExpr{Op: n.Op, Terms: terms}
	default:
		return p
	}
}
