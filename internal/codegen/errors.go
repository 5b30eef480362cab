package codegen

import (
	"fmt"

	"github.com/go-stack/stack"
)

// GenerationError reports a tree the generator does not know how to lower.
// It never occurs for a tree accepted by the validator.
type GenerationError struct {
	Msg  string
	Call stack.Call // generator frame that rejected the node
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("codegen: %s [%+v]", e.Msg, e.Call)
}

// Function returns the name of the generator function that failed.
func (e *GenerationError) Function() string {
	return fmt.Sprintf("%n", e.Call)
}
