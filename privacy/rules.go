package privacy

import (
	"context"
	"slices"
)

// DenyAnchorType returns a rule that denies any query whose resolved
// anchor type is one of names. Useful for turning off a matcher an
// operator considers too expensive or too broad to expose (e.g. a bare
// File() scan returning every ingested file).
func DenyAnchorType(names ...string) Rule {
	return RuleFunc(func(_ context.Context, r *Request) error {
		if slices.Contains(names, r.TypeName) {
			return Denyf("privacy: queries rooted at %s are not allowed", r.TypeName)
		}
		return Skip
	})
}

// AllowAnchorTypes returns a rule that allows a query whose anchor type
// is one of names, and skips otherwise. Combine with AlwaysDenyRule to
// turn a list of matchers into the only ones callers may root a query
// at:
//
//	privacy.Policy{
//	    privacy.AllowAnchorTypes("Call", "FunctionDef"),
//	    privacy.AlwaysDenyRule(),
//	}
func AllowAnchorTypes(names ...string) Rule {
	return RuleFunc(func(_ context.Context, r *Request) error {
		if slices.Contains(names, r.TypeName) {
			return Allow
		}
		return Skip
	})
}

// RequireLimit returns a rule that denies a query with no limit, or a
// limit above max. An unbounded scan over a large corpus is the single
// most expensive shape a caller can ask run_query for; this rule lets
// an operator cap it without touching the compiler or the store.
func RequireLimit(max int) Rule {
	return RuleFunc(func(_ context.Context, r *Request) error {
		if r.Limit == nil {
			return Denyf("privacy: query has no limit, maximum is %d", max)
		}
		if *r.Limit > max {
			return Denyf("privacy: limit %d exceeds maximum of %d", *r.Limit, max)
		}
		return Skip
	})
}
