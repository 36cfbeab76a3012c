package constraintgraph

import "fmt"

// An UnknownNodeError is returned when a node name has not been created through the proxy.
type UnknownNodeError struct {
	Name string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.Name)
}

// An UnknownComponentError is returned when an edge, or a node or edge, name has not been
// created through the proxy.
type UnknownComponentError struct {
	// Kind is "edge" or "component".
	Kind string
	Name string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}
