package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// P is a single node of the predicate algebra: a comparison, a logical
// combination, a unary negation, or a call-style predicate such as
// has_edge/contains. Every node renders itself with String and can
// produce its own negation with Negate.
type P interface {
	String() string
	Negate() P
}

// Term is anything that can appear on either side of a comparison: a
// bare field reference (F) or an already-formatted literal.
type Term interface {
	String() string
}

type fieldRef struct{ name string }

func (f fieldRef) String() string { return f.name }

// F returns a bare field reference usable as either operand of EQ,
// NEQ, GT, GTE, LT, or LTE.
func F(name string) Term { return fieldRef{name} }

type rawTerm string

func (r rawTerm) String() string { return string(r) }

// Raw wraps already-rendered text (typically the output of ExprString
// applied to a path expression) as a Term, letting a comparison's
// operand be an arbitrary computed path rather than only a bare field
// name.
func Raw(text string) Term { return rawTerm(text) }

// BinaryExpr is a two-operand comparison: `left op right`.
type BinaryExpr struct {
	Left  Term
	Op    string
	Right Term
}

func (b *BinaryExpr) String() string { return fmt.Sprintf("%s %s %s", b.Left, b.Op, b.Right) }
func (b *BinaryExpr) Negate() P      { return negate(b) }

// UnaryExpr is a single-operand prefix operator, currently only
// logical negation: `!(x)`.
type UnaryExpr struct {
	Op string
	X  P
}

func (u *UnaryExpr) String() string { return fmt.Sprintf("%s(%s)", u.Op, u.X) }
func (u *UnaryExpr) Negate() P      { return negate(u) }

// NaryExpr is a variadic logical combination (&& or ||). Two operands
// print unwrapped (`a && b`); three or more wrap in parentheses so the
// grouping survives further composition (`(a && b && c)`).
type NaryExpr struct {
	Op    string
	Terms []P
}

func (n *NaryExpr) String() string {
	parts := make([]string, len(n.Terms))
	for i, t := range n.Terms {
		parts[i] = t.String()
	}
	joined := strings.Join(parts, " "+n.Op+" ")
	if len(n.Terms) >= 3 {
		return "(" + joined + ")"
	}
	return joined
}
func (n *NaryExpr) Negate() P { return negate(n) }

// CallExpr is a call-style predicate: has_edge(name), has_edge(name,
// inner), contains(field, "x"), and the other string builtins.
type CallExpr struct {
	Name string
	Args []string
}

func (c *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(c.Args, ", "))
}
func (c *CallExpr) Negate() P { return negate(c) }

// negate wraps any node in a fresh logical-not; it does not attempt to
// push the negation inward (double negation, De Morgan, and comparator
// inversion are the optimizer's job, not the IR's).
func negate(p P) P { return &UnaryExpr{Op: "!", X: p} }

func combine(op string, ps []P) P {
	if len(ps) == 1 {
		return ps[0]
	}
	return &NaryExpr{Op: op, Terms: ps}
}

// And combines predicates with logical and.
func And(ps ...P) P { return combine("&&", ps) }

// Or combines predicates with logical or.
func Or(ps ...P) P { return combine("||", ps) }

// Not negates a predicate.
func Not(p P) P { return negate(p) }

// EQ, NEQ, GT, GTE, LT, and LTE build a raw comparison between two
// terms, most commonly two field references (a path equi-join or a
// cross-field comparison inside a WHERE clause).
func EQ(a, b Term) P  { return &BinaryExpr{a, "==", b} }
func NEQ(a, b Term) P { return &BinaryExpr{a, "!=", b} }
func GT(a, b Term) P  { return &BinaryExpr{a, ">", b} }
func GTE(a, b Term) P { return &BinaryExpr{a, ">=", b} }
func LT(a, b Term) P  { return &BinaryExpr{a, "<", b} }
func LTE(a, b Term) P { return &BinaryExpr{a, "<=", b} }

func fieldCmp(name, op string, value any) P {
	return &BinaryExpr{fieldRef{name}, op, rawTerm(formatAny(value))}
}

// FieldEQ, FieldNEQ, FieldGT, FieldGTE, FieldLT, and FieldLTE compare a
// named field against an arbitrary literal value.
func FieldEQ(name string, value any) P  { return fieldCmp(name, "==", value) }
func FieldNEQ(name string, value any) P { return fieldCmp(name, "!=", value) }
func FieldGT(name string, value any) P  { return fieldCmp(name, ">", value) }
func FieldGTE(name string, value any) P { return fieldCmp(name, ">=", value) }
func FieldLT(name string, value any) P  { return fieldCmp(name, "<", value) }
func FieldLTE(name string, value any) P { return fieldCmp(name, "<=", value) }

// FieldNil and FieldNotNil test a field against the nil literal.
func FieldNil(name string) P    { return &BinaryExpr{fieldRef{name}, "==", rawTerm("nil")} }
func FieldNotNil(name string) P { return &BinaryExpr{fieldRef{name}, "!=", rawTerm("nil")} }

func fieldList(name, op string, values []any) P {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatAny(v)
	}
	return rawPredicate(fmt.Sprintf("%s %s [%s]", name, op, strings.Join(parts, ",")))
}

// FieldIn and FieldNotIn test set membership: `name in [v1,v2]`.
func FieldIn(name string, values ...any) P    { return fieldList(name, "in", values) }
func FieldNotIn(name string, values ...any) P { return fieldList(name, "not in", values) }

type rawPredicate string

func (r rawPredicate) String() string { return string(r) }
func (r rawPredicate) Negate() P      { return negate(r) }

func call(name string, args ...string) P { return &CallExpr{Name: name, Args: args} }

// FieldContains, FieldContainsFold, FieldEqualFold, FieldHasPrefix,
// and FieldHasSuffix are the string-matching builtins, rendered as
// call-style predicates rather than operators.
func FieldContains(name, substr string) P     { return call("contains", name, strconv.Quote(substr)) }
func FieldContainsFold(name, substr string) P { return call("contains_fold", name, strconv.Quote(substr)) }
func FieldEqualFold(name, value string) P     { return call("equal_fold", name, strconv.Quote(value)) }
func FieldHasPrefix(name, prefix string) P    { return call("has_prefix", name, strconv.Quote(prefix)) }
func FieldHasSuffix(name, suffix string) P    { return call("has_suffix", name, strconv.Quote(suffix)) }

// HasEdge tests for the presence of a link without constraining it.
func HasEdge(name string) P { return &CallExpr{Name: "has_edge", Args: []string{name}} }

// HasEdgeWith tests for the presence of a link whose target satisfies
// a nested predicate, e.g. has_edge(groups, has_edge(admins, ...)).
func HasEdgeWith(name string, p P) P {
	return &CallExpr{Name: "has_edge", Args: []string{name, p.String()}}
}

// IsExpr is a runtime type assertion along a path: `x IS A | B`. The
// structural-query compiler emits one per `IS T` type narrowing; the
// optimizer's CoalesceIsUnion rule folds `x IS A || x IS B` into a
// single IsExpr over both types.
type IsExpr struct {
	X     Term
	Types []string
}

func (i *IsExpr) String() string {
	return fmt.Sprintf("%s IS %s", i.X, strings.Join(i.Types, " | "))
}
func (i *IsExpr) Negate() P { return negate(i) }

// Is builds a runtime type assertion over one or more grammar types.
func Is(x Term, types ...string) P { return &IsExpr{X: x, Types: types} }
