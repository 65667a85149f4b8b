package dispatch

import "fmt"

// UnknownToolError is returned when a call names a tool that does not exist in
// the registry. It is a protocol-level fault, distinct from a tool that exists
// but whose execution failed.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}
