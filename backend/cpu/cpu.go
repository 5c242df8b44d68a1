// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/floatbench/internal/backend/cpu"
	"github.com/born-ml/floatbench/tensor"
)

// Backend represents the CPU backend implementation.
//
// Float32 and float64 are computed natively; float16 and bfloat16 operands
// are widened to float32 and the result is rounded back.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/floatbench/backend/cpu"
//	    "github.com/born-ml/floatbench/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float16, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
