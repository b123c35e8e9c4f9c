package compiler

import (
	"fmt"

	"github.com/reizio/reiz/reizql/parse"
)

// CompilerError reports an unknown matcher, too many positional
// arguments, a ref-type mismatch, an unused reference at scope exit,
// or invalid builtin arity (spec.md §7). Name shadowing is not
// reported: a reference already bound in an enclosing scope is
// compiled as a use of that binding. Range is zero
// when the offending parse.Node carries no position of its own.
type CompilerError struct {
	Reason string
	Range  parse.Range
}

func (e *CompilerError) Error() string {
	if e.Range.StartLine > 0 {
		return fmt.Sprintf("reizql: compile: %d:%d: %s", e.Range.StartLine, e.Range.StartCol, e.Reason)
	}
	return fmt.Sprintf("reizql: compile: %s", e.Reason)
}
