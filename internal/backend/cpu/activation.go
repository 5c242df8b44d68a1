package cpu

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/born-ml/floatbench/internal/tensor"
)

// ReLU applies max(0, x) element-wise. NaN inputs stay NaN.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType().IsReduced() {
		return narrow(cpu.ReLU(widen(x)), x.DType())
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("relu: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		relu(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		relu(result.AsFloat64(), x.AsFloat64())
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}
	return result
}

func relu[T floating](dst, src []T) {
	for i, v := range src {
		if v < 0 {
			dst[i] = 0
		} else {
			dst[i] = v
		}
	}
}

// Softmax computes softmax along the specified dimension.
// Softmax(x_i) = exp(x_i) / sum(exp(x_j)) for all j in dimension.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.normalize("softmax", x, dim, false)
}

// LogSoftmax computes log(softmax(x)) along the specified dimension as
// x_i - max - log(sum(exp(x_j - max))), which stays finite for large inputs.
func (cpu *CPUBackend) LogSoftmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.normalize("log_softmax", x, dim, true)
}

func (cpu *CPUBackend) normalize(op string, x *tensor.RawTensor, dim int, logOut bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	// Normalize dimension
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(&tensor.ShapeError{
			Op:     op,
			Shapes: []tensor.Shape{shape},
			Reason: fmt.Sprintf("dimension %d out of range for tensor of rank %d", dim, ndim),
		})
	}

	if x.DType().IsReduced() {
		return narrow(cpu.normalize(op, widen(x), dim, logOut), x.DType())
	}

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		softmaxAlong(result.AsFloat32(), x.AsFloat32(), shape, dim, logOut, math32.Exp, math32.Log)
	case tensor.Float64:
		softmaxAlong(result.AsFloat64(), x.AsFloat64(), shape, dim, logOut, math.Exp, math.Log)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}

func softmaxAlong[T floating](dst, src []T, shape tensor.Shape, dim int, logOut bool, exp, log func(T) T) {
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	// Number of "rows" (groups of elements that share softmax computation)
	numRows := len(src) / dimSize

	for row := 0; row < numRows; row++ {
		// Compute base index for this row
		baseIdx := 0
		remaining := row
		for i := len(shape) - 1; i >= 0; i-- {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}

		// Find max for numerical stability
		maxVal := T(math.Inf(-1))
		for i := 0; i < dimSize; i++ {
			if v := src[baseIdx+i*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		var sum T
		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			e := exp(src[idx] - maxVal)
			if !logOut {
				dst[idx] = e
			}
			sum += e
		}

		if logOut {
			logSum := log(sum)
			for i := 0; i < dimSize; i++ {
				idx := baseIdx + i*dimStride
				dst[idx] = src[idx] - maxVal - logSum
			}
			continue
		}
		for i := 0; i < dimSize; i++ {
			dst[baseIdx+i*dimStride] /= sum
		}
	}
}
