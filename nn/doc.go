// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Conv2D, MaxPool2D
//   - Activations: ReLU, LogSoftmax
//   - Utilities: Flatten, Sequential, Module interface, Parameter
//   - Initialization: Xavier, Zeros
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
//	    model := nn.NewSequential[*cpu.Backend](
//	        nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	        nn.NewMaxPool2D(2, 2, backend),
//	        nn.NewFlatten[*cpu.Backend](),
//	        nn.NewLinear(16*16*16, 2, backend),
//	        nn.NewLogSoftmax[*cpu.Backend](1),
//	    )
//
//	    x := tensor.Rand(tensor.Shape{1, 3, 32, 32}, tensor.Float32, backend)
//	    logProbs := model.Forward(x)
//	}
//
// # Precision
//
// Parameters are created in float32. ConvertParameters casts every
// parameter of a module in place, after which inputs must use the same
// dtype:
//
//	nn.ConvertParameters(model.Parameters(), tensor.Float16)
//	logProbs := model.Forward(x.To(tensor.Float16))
package nn
