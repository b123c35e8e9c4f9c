package ir

import "fmt"

// UnsupportedOperation reports an IR construct the optimizer or the
// backend printer was asked to handle but does not implement: an
// Expr/Stmt combination the structural-query compiler never actually
// emits, or a union of incompatible branch shapes.
type UnsupportedOperation struct {
	Op     string
	Reason string
}

func (e *UnsupportedOperation) Error() string {
	return fmt.Sprintf("ir: unsupported operation %s: %s", e.Op, e.Reason)
}
