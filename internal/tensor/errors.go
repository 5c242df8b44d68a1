package tensor

import (
	"fmt"
	"strings"
)

// ShapeError is raised (as a panic value) when operand shapes are incompatible.
// Engine operations never return it; they panic, and the caller decides
// whether to recover.
type ShapeError struct {
	Op     string  // Operation that rejected the operands, e.g. "linear"
	Shapes []Shape // Offending operand shapes, in argument order
	Reason string  // Human readable detail
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	parts := make([]string, len(e.Shapes))
	for i, s := range e.Shapes {
		parts[i] = fmt.Sprint([]int(s))
	}
	return fmt.Sprintf("%s: %s (shapes %s)", e.Op, e.Reason, strings.Join(parts, ", "))
}

// DTypeError is raised when an operation receives operands of the wrong
// or mixed data types.
type DTypeError struct {
	Op   string
	Got  DataType
	Want DataType
}

// Error implements the error interface.
func (e *DTypeError) Error() string {
	return fmt.Sprintf("%s: expected dtype %s, got %s", e.Op, e.Want, e.Got)
}

// CheckSameDType panics with a DTypeError unless every operand has the
// dtype of the first one.
func CheckSameDType(op string, operands ...*RawTensor) {
	if len(operands) == 0 {
		return
	}
	want := operands[0].DType()
	for _, o := range operands[1:] {
		if o.DType() != want {
			panic(&DTypeError{Op: op, Got: o.DType(), Want: want})
		}
	}
}
