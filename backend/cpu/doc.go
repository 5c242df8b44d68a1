// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Im2col algorithm for convolutions, gonum BLAS for GEMM
//   - Float32 and Float64 compute, float16 and bfloat16 storage
//   - NumPy-compatible broadcasting
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/floatbench/backend/cpu"
//	    "github.com/born-ml/floatbench/nn"
//	    "github.com/born-ml/floatbench/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Rand(tensor.Shape{1, 3, 32, 32}, tensor.Float32, backend)
//	    conv := nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend)
//	    y := conv.Forward(x)
//	}
//
// # Reduced Precision
//
// Half and bfloat16 results are rounded to nearest even after every
// operation, matching a framework that stores activations in 16 bits.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
