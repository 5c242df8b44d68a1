package cpu

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/born-ml/floatbench/internal/tensor"
)

// Cast converts the tensor to a different data type.
//
// Narrowing to float16 and bfloat16 rounds to nearest even; values beyond
// the float16 range become ±Inf. Float64 sources are rounded to float32
// first. Casting to the tensor's own dtype returns x unchanged.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	// No-op if same dtype
	if x.DType() == dtype {
		return x
	}

	result, err := tensor.NewRaw(x.Shape(), dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}

	switch x.DType() {
	case tensor.Float64:
		castFromFloat64(result, x.AsFloat64())
	default:
		castFromFloat32(result, toFloat32(x))
	}

	return result
}

// toFloat32 returns the values of x as float32. For float32 tensors this
// is the tensor's own storage.
func toFloat32(x *tensor.RawTensor) []float32 {
	switch x.DType() {
	case tensor.Float32:
		return x.AsFloat32()
	case tensor.Float64:
		src := x.AsFloat64()
		out := make([]float32, len(src))
		for i, v := range src {
			out[i] = float32(v)
		}
		return out
	case tensor.Float16:
		src := x.AsFloat16()
		out := make([]float32, len(src))
		for i, v := range src {
			out[i] = v.Float32()
		}
		return out
	case tensor.BFloat16:
		src := x.AsBFloat16()
		out := make([]float32, len(src))
		for i, v := range src {
			out[i] = v.Float32()
		}
		return out
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}
}

func castFromFloat32(result *tensor.RawTensor, src []float32) {
	switch result.DType() {
	case tensor.Float32:
		copy(result.AsFloat32(), src)
	case tensor.Float64:
		dst := result.AsFloat64()
		for i, v := range src {
			dst[i] = float64(v)
		}
	case tensor.Float16:
		dst := result.AsFloat16()
		for i, v := range src {
			dst[i] = float16.Fromfloat32(v)
		}
	case tensor.BFloat16:
		dst := result.AsBFloat16()
		for i, v := range src {
			dst[i] = tensor.BF16FromFloat32(v)
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", result.DType()))
	}
}

func castFromFloat64(result *tensor.RawTensor, src []float64) {
	if result.DType() != tensor.Float32 {
		narrowed := make([]float32, len(src))
		for i, v := range src {
			narrowed[i] = float32(v)
		}
		castFromFloat32(result, narrowed)
		return
	}
	dst := result.AsFloat32()
	for i, v := range src {
		dst[i] = float32(v)
	}
}

// widen returns a float32 copy of a reduced-precision tensor.
func widen(x *tensor.RawTensor) *tensor.RawTensor {
	out, err := tensor.NewRaw(x.Shape(), tensor.Float32, x.Device())
	if err != nil {
		panic(fmt.Sprintf("widen: %v", err))
	}
	copy(out.AsFloat32(), toFloat32(x))
	return out
}

// narrow rounds a float32 result back to dtype.
func narrow(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x
	}
	out, err := tensor.NewRaw(x.Shape(), dtype, x.Device())
	if err != nil {
		panic(fmt.Sprintf("narrow: %v", err))
	}
	castFromFloat32(out, x.AsFloat32())
	return out
}
