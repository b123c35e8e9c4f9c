package astxform

// Sentinel marks the presence of a zero-length sequence field. A
// Sequence-qualified field that is simply absent from a row looks
// identical, on the wire, to one that was populated and then emptied;
// without an explicit marker a serializer can't tell "this call has no
// arguments" from "this call's argument list was never visited".
// Sentinel gives the empty case its own addressable row.
type Sentinel struct {
	// Field is the grammar field name the empty sequence belongs to,
	// e.g. "args" for a CallExpr with no arguments.
	Field string
}

// SentinelFor returns the sentinel for a named sequence field, for the
// serializer to insert in place of the (zero) rows an empty slice
// would otherwise contribute.
func SentinelFor(field string) Sentinel {
	return Sentinel{Field: field}
}

// NeedsSentinel reports whether a sequence-qualified field with n
// elements requires a sentinel row to stay distinguishable from an
// absent field.
func NeedsSentinel(n int) bool {
	return n == 0
}
