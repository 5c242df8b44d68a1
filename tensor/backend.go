// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/floatbench/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations and dispatch
// on the runtime DataType of their operands.
//
// Implementations:
//   - backend/cpu: Pure Go, BLAS GEMM for matmul and convolution
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Ones(tensor.Shape{2, 3}, tensor.Float32, backend)
//	y := x.Add(x) // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition with broadcasting.

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor // Matrix multiplication.

	// Convolutional operations.
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor // 2D convolution.
	MaxPool2D(input *RawTensor, kernelSize, stride int) *RawTensor   // 2D max pooling.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor  // Transpose dimensions.

	// Activation functions.
	ReLU(x *RawTensor) *RawTensor                // max(0, x).
	Softmax(x *RawTensor, dim int) *RawTensor    // Softmax along dimension.
	LogSoftmax(x *RawTensor, dim int) *RawTensor // Log-softmax along dimension.

	// Type conversion.
	Cast(x *RawTensor, dtype DataType) *RawTensor // Cast to different data type.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
