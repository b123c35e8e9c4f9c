package serialize

import "fmt"

// SerializationError reports a tree that Serialize cannot turn into
// IR: a node kind with no field extractor, or a reference a node
// carries to something outside the arena it was built from.
type SerializationError struct {
	Type   string
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize: %s: %s", e.Type, e.Reason)
}
