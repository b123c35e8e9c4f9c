package privacy

import (
	"context"
	"errors"
	"fmt"
)

// Policy decision sentinel errors.
//
// These errors are used as return values from rules to indicate how
// policy evaluation should proceed. Use errors.Is() to check for these
// values:
//
//	if errors.Is(err, privacy.Allow) { ... }
//	if errors.Is(err, privacy.Deny) { ... }
//	if errors.Is(err, privacy.Skip) { ... }
var (
	// Allow may be returned by a rule to indicate that evaluation
	// should terminate with an allow decision.
	Allow = errors.New("reiz/privacy: allow rule")

	// Deny may be returned by a rule to indicate that evaluation
	// should terminate with a deny decision.
	Deny = errors.New("reiz/privacy: deny rule")

	// Skip may be returned by a rule to indicate that it abstains
	// and evaluation should continue to the next rule.
	Skip = errors.New("reiz/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

// Request describes the query a Rule is asked to allow or deny. It is
// built from the already-compiled statement: Table/TypeName come from
// the anchor reizql/compiler.Anchor resolves, so a rule can gate on
// "what grammar type does this query scan" without re-parsing source
// itself.
type Request struct {
	Source   string
	Table    string
	TypeName string
	Limit    *int
	Offset   *int
}

// Rule decides whether a Request is allowed to run.
type Rule interface {
	Eval(context.Context, *Request) error
}

// RuleFunc is an adapter allowing ordinary functions to act as Rules.
type RuleFunc func(context.Context, *Request) error

// Eval returns f(ctx, r).
func (f RuleFunc) Eval(ctx context.Context, r *Request) error {
	return f(ctx, r)
}

// AlwaysAllowRule returns a rule that always allows.
func AlwaysAllowRule() Rule {
	return fixedDecision{Allow}
}

// AlwaysDenyRule returns a rule that always denies.
func AlwaysDenyRule() Rule {
	return fixedDecision{Deny}
}

// ContextRule builds a rule purely from the context, ignoring the
// request. Returning nil from eval is equivalent to Skip.
func ContextRule(eval func(context.Context) error) Rule {
	return RuleFunc(func(ctx context.Context, _ *Request) error {
		return eval(ctx)
	})
}

type fixedDecision struct {
	decision error
}

func (f fixedDecision) Eval(context.Context, *Request) error {
	return f.decision
}

// Policy combines rules into a single chain. Evaluation stops at the
// first non-Skip decision; a Policy with no rules, or whose rules all
// Skip, allows the request.
type Policy []Rule

// Eval walks p in order, applying each Rule's decision:
//   - nil or Skip: continue to the next rule
//   - Allow: stop, request is allowed (nil error)
//   - anything else (including Deny): stop, return that error
func (p Policy) Eval(ctx context.Context, r *Request) error {
	for _, rule := range p {
		switch decision := rule.Eval(ctx, r); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}
