// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API of the floatbench tensor engine.
//
// Tensors carry their element type as runtime metadata (DataType), so one
// Tensor[B] handle covers float32, float64, float16 and bfloat16 data:
//
//	backend := cpu.New()
//	tensor.ManualSeed(0)
//	x := tensor.Rand(tensor.Shape{3, 3}, tensor.Float32, backend)
//	h := x.To(tensor.Float16)
//	fmt.Println(h.Pretty())
//
// Reduced-precision tensors are stored in 16 bits and computed by widening
// to float32. Invalid operands make operations panic with *ShapeError or
// *DTypeError.
package tensor

import (
	"github.com/born-ml/floatbench/internal/tensor"
)

// DType is a constraint for Go element types with a tensor representation:
// float32, float64, float16.Float16 and BF16.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32  DataType = tensor.Float32
	Float64  DataType = tensor.Float64
	Float16  DataType = tensor.Float16
	BFloat16 DataType = tensor.BFloat16
)

// ParseDataType converts a name such as "half" or "bfloat16" to a DataType.
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// BF16 is a bfloat16 value.
type BF16 = tensor.BF16

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the only device.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a handle over a RawTensor and the backend that computes on it.
type Tensor[B Backend] = tensor.Tensor[B]

// ShapeError is the panic value for incompatible operand shapes.
type ShapeError = tensor.ShapeError

// DTypeError is the panic value for operands of the wrong data type.
type DTypeError = tensor.DTypeError

// Creation functions

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, dtype DataType, b B) *Tensor[B] {
	return tensor.Zeros(shape, dtype, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, dtype DataType, b B) *Tensor[B] {
	return tensor.Ones(shape, dtype, b)
}

// Full creates a tensor filled with value, rounded to dtype.
func Full[B Backend](shape Shape, value float64, dtype DataType, b B) *Tensor[B] {
	return tensor.Full(shape, value, dtype, b)
}

// FromSlice creates a tensor from a slice; the DataType follows T.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, b)
}

// Values returns the tensor's storage as a typed slice. It panics with a
// *DTypeError if T does not match the tensor's DataType.
func Values[T DType, B Backend](t *Tensor[B]) []T {
	return tensor.Values[T](t)
}

// Rand creates a tensor of uniform [0, 1) values from the default generator.
func Rand[B Backend](shape Shape, dtype DataType, b B) *Tensor[B] {
	return tensor.Rand(shape, dtype, b)
}

// Randn creates a tensor of standard normal values from the default generator.
func Randn[B Backend](shape Shape, dtype DataType, b B) *Tensor[B] {
	return tensor.Randn(shape, dtype, b)
}

// Random number generation

// Generator is a seedable MT19937 generator.
type Generator = tensor.Generator

// DefaultSeed is the seed of the default generator at startup.
const DefaultSeed = tensor.DefaultSeed

// NewGenerator creates a generator with the given seed.
func NewGenerator(seed uint64) *Generator {
	return tensor.NewGenerator(seed)
}

// ManualSeed reseeds the default generator.
func ManualSeed(seed uint64) {
	tensor.ManualSeed(seed)
}

// DefaultGenerator returns the process-wide generator used by Rand and Randn.
func DefaultGenerator() *Generator {
	return tensor.DefaultGenerator()
}
