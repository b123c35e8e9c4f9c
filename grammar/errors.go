package grammar

import "fmt"

// GrammarError reports a malformed ASDL description or a reference to an
// undeclared type. It is fatal at generation time (spec.md §7).
type GrammarError struct {
	Line, Col int
	Reason    string
}

func (e *GrammarError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("grammar: %d:%d: %s", e.Line, e.Col, e.Reason)
	}
	return fmt.Sprintf("grammar: %s", e.Reason)
}
