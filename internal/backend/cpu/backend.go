// Package cpu implements the CPU backend with BLAS integration.
//
// Float32 and float64 tensors are computed natively. Float16 and bfloat16
// tensors are widened to float32, computed, and the result is rounded back
// to the operand's storage type after every operation.
package cpu

import (
	"fmt"

	"github.com/born-ml/floatbench/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	tensor.CheckSameDType("add", a, b)
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(&tensor.ShapeError{Op: "add", Shapes: []tensor.Shape{a.Shape(), b.Shape()}, Reason: err.Error()})
	}

	if a.DType().IsReduced() {
		return narrow(cpu.Add(widen(a), widen(b)), a.DType())
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("add: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		addInto(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, needsBroadcast)
	case tensor.Float64:
		addInto(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, needsBroadcast)
	default:
		panic(fmt.Sprintf("add: unsupported dtype %s", a.DType()))
	}

	return result
}

// Reshape returns a view of t with a new shape. A single -1 dimension is
// inferred from the element count.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	resolved, err := newShape.Resolve(t.NumElements())
	if err != nil {
		panic(&tensor.ShapeError{Op: "reshape", Shapes: []tensor.Shape{t.Shape(), newShape}, Reason: err.Error()})
	}

	// Reshape is a view operation (zero-copy)
	view, err := t.View(resolved)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

// Transpose transposes the tensor by permuting its dimensions.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	// Validate axes
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	// Compute new shape
	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	// Data movement only: reduced types are permuted in their storage format.
	switch t.DType() {
	case tensor.Float32:
		transposeInto(result.AsFloat32(), t.AsFloat32(), shape, axes)
	case tensor.Float64:
		transposeInto(result.AsFloat64(), t.AsFloat64(), shape, axes)
	case tensor.Float16:
		transposeInto(result.AsFloat16(), t.AsFloat16(), shape, axes)
	case tensor.BFloat16:
		transposeInto(result.AsBFloat16(), t.AsBFloat16(), shape, axes)
	}

	return result
}
