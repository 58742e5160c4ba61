package shape

import "fmt"

// DimensionMismatchError reports an operation called with an operand
// configuration it cannot build, such as a pattern of zero copies.
type DimensionMismatchError struct {
	Op     string
	Reason string
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("shape: %s: %s", e.Op, e.Reason)
}
