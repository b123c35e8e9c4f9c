// Package optimize rewrites a compiled ir.P tree into an equivalent,
// smaller one before it reaches the backend printer: comparator
// inversion, double-negation elimination, and IS-union coalescing.
//
// Every rule follows the same shape as the project's privacy rule
// chain (see ../../privacy): rules are tried in a fixed order, and a
// rule that passes leaves the node to the next one. Unlike privacy,
// there is no first-decision-wins: each rule is applied in turn to the
// previous rule's result, and the whole set repeats until no rule
// rewrites the node. Where privacy
// rules return Allow/Deny/Skip sentinel errors, an optimizer rule has
// nothing to allow or deny — it either rewrote the node or it didn't —
// so the signal is a plain (ir.P, bool) pair instead of an error, and
// there is no exception-style early exit: a rule that doesn't apply
// just returns (p, false) and the walk moves to the next rule.
package optimize
