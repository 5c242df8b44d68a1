package nn

import (
	"math"

	"github.com/born-ml/floatbench/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// Samples come from the default generator, so tensor.ManualSeed makes
// initialization reproducible. The tensor is created as float32.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	bound := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))

	t := tensor.Rand(shape, tensor.Float32, backend)
	data := tensor.Values[float32](t)
	for i, u := range data {
		data[i] = (u*2 - 1) * bound
	}
	return t
}

// Zeros creates a float32 tensor filled with zeros.
//
// This is commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, tensor.Float32, backend)
}
