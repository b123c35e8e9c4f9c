package query

import "fmt"

// ValidationError reports a query that parsed and compiled but can't
// be run: its anchor type carries no position/module information for
// the result shape run_query promises, or a limit/offset was negative.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("reizql: query: %s", e.Reason)
}
