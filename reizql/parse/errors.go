package parse

import "fmt"

// SyntaxError reports a match expression go/parser rejected, or one
// that parsed as valid Go but doesn't fit any shape this package
// recognizes. Range is inclusive on both ends, per spec.md §4.F.
type SyntaxError struct {
	Reason string
	Range  Range
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("reizql: parse: %d:%d: %s", e.Range.StartLine, e.Range.StartCol, e.Reason)
}
