package network

import (
	"fmt"
	"strings"

	"github.com/born-ml/floatbench/internal/tensor"
)

// NetType selects the numeric precision of a network's parameters.
type NetType int

// Supported network precisions.
const (
	Float32 NetType = iota
	Double
	Half
	BFloat16
)

// AllTypes lists every NetType in declaration order.
var AllTypes = []NetType{Float32, Double, Half, BFloat16}

// Valid reports whether t is one of the declared precisions.
func (t NetType) Valid() bool {
	return t >= Float32 && t <= BFloat16
}

// DataType returns the tensor dtype used for parameters of this type.
func (t NetType) DataType() tensor.DataType {
	switch t {
	case Float32:
		return tensor.Float32
	case Double:
		return tensor.Float64
	case Half:
		return tensor.Float16
	case BFloat16:
		return tensor.BFloat16
	default:
		panic(fmt.Sprintf("network: invalid net type %d", int(t)))
	}
}

// String returns the lower-case name used on the command line.
func (t NetType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Double:
		return "double"
	case Half:
		return "half"
	case BFloat16:
		return "bfloat16"
	default:
		return fmt.Sprintf("NetType(%d)", int(t))
	}
}

// ParseNetType accepts the String names plus the tensor dtype aliases
// (float, float64, float16, bf16), case-insensitively.
func ParseNetType(name string) (NetType, error) {
	dt, err := tensor.ParseDataType(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return 0, fmt.Errorf("unknown net type %q", name)
	}
	switch dt {
	case tensor.Float64:
		return Double, nil
	case tensor.Float16:
		return Half, nil
	case tensor.BFloat16:
		return BFloat16, nil
	default:
		return Float32, nil
	}
}
