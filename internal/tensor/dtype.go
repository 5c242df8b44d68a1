// Package tensor provides the core tensor types and operations for the floatbench engine.
package tensor

import (
	"fmt"

	"github.com/x448/float16"
)

// DType is a constraint for Go element types that have a tensor representation.
// It is used for typed views and construction from slices; the tensor itself
// carries its type as runtime metadata (DataType).
type DType interface {
	float32 | float64 | float16.Float16 | BF16
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Float16
	BFloat16
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	case Float16, BFloat16:
		return 2
	default:
		panic(fmt.Sprintf("unknown data type %d", int(dt)))
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	case BFloat16:
		return "bfloat16"
	default:
		return "unknown"
	}
}

// TypeName returns the scalar type name used in tensor printouts
// (e.g. "Float" for float32, "Half" for float16).
func (dt DataType) TypeName() string {
	switch dt {
	case Float32:
		return "Float"
	case Float64:
		return "Double"
	case Float16:
		return "Half"
	case BFloat16:
		return "BFloat16"
	default:
		return "Unknown"
	}
}

// IsReduced reports whether the type is a 16-bit storage format.
// Reduced types are computed by widening to float32.
func (dt DataType) IsReduced() bool {
	return dt == Float16 || dt == BFloat16
}

// ParseDataType converts a name such as "float16" or "half" to a DataType.
func ParseDataType(name string) (DataType, error) {
	switch name {
	case "float32", "float":
		return Float32, nil
	case "float64", "double":
		return Float64, nil
	case "float16", "half":
		return Float16, nil
	case "bfloat16", "bf16":
		return BFloat16, nil
	default:
		return 0, fmt.Errorf("unknown data type %q", name)
	}
}

// dataTypeOf infers DataType from a generic type T.
func dataTypeOf[T DType]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case float16.Float16:
		return Float16
	case BF16:
		return BFloat16
	default:
		panic("unsupported type")
	}
}
