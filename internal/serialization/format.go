package serialization

import (
	"github.com/born-ml/floatbench/internal/tensor"
)

// Format constants.
const (
	metadataKey = "__metadata__"

	// ChecksumKey is the metadata entry holding the hex SHA-256 of the data
	// section.
	ChecksumKey = "sha256"
)

// tensorHeader is one tensor entry of the JSON header.
type tensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string
	DType  tensor.DataType
	Shape  tensor.Shape
	Offset int64 // bytes from the start of the data section
	Size   int64 // size in bytes
}

// dtypeToSafeTensors converts tensor.DataType to SafeTensors dtype string.
func dtypeToSafeTensors(dt tensor.DataType) (string, bool) {
	switch dt {
	case tensor.Float32:
		return "F32", true
	case tensor.Float64:
		return "F64", true
	case tensor.Float16:
		return "F16", true
	case tensor.BFloat16:
		return "BF16", true
	default:
		return "", false
	}
}

// safeTensorsToDType converts a SafeTensors dtype string to tensor.DataType.
func safeTensorsToDType(s string) (tensor.DataType, bool) {
	switch s {
	case "F32":
		return tensor.Float32, true
	case "F64":
		return tensor.Float64, true
	case "F16":
		return tensor.Float16, true
	case "BF16":
		return tensor.BFloat16, true
	default:
		return 0, false
	}
}
