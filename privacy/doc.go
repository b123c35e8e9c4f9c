// Package privacy provides a rule chain for gating a structural query
// before it runs, evaluated over the query's source text and resolved
// anchor rather than over generated ORM query/mutation types.
//
// # Core concepts
//
// A Policy is an ordered list of Rules. Each Rule inspects a Request
// and returns Allow, Deny, Skip, or nil (equivalent to Skip). The first
// rule to return a non-Skip decision ends the evaluation; a Policy that
// never reaches a decision allows the query, so an empty Policy allows
// everything.
//
// # Rule evaluation
//
//	policy := privacy.Policy{
//	    privacy.DenyAnchorType("File"),
//	    privacy.RequireLimit(1000),
//	}
//
// is evaluated in order until Deny or Allow short-circuits it; both
// rules above Skip for a query that satisfies them, so Policy falls
// through to its default allow.
package privacy
