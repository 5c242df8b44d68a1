package tensor

import (
	"github.com/x448/float16"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros(Shape{3, 4}, tensor.Float32, backend)
func Zeros[B Backend](shape Shape, dtype DataType, b B) *Tensor[B] {
	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New(raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, dtype DataType, b B) *Tensor[B] {
	return Full(shape, 1, dtype, b)
}

// Full creates a tensor filled with value, rounded to dtype.
//
// Example:
//
//	t := tensor.Full(Shape{3, 3}, 3.14, tensor.Float16, backend)
func Full[B Backend](shape Shape, value float64, dtype DataType, b B) *Tensor[B] {
	t := Zeros(shape, dtype, b)
	fill(t.raw, func(int) float64 { return value })
	return t
}

// Rand creates a tensor with values uniformly distributed in [0, 1),
// drawn from the default generator.
//
// Example:
//
//	tensor.ManualSeed(0)
//	t := tensor.Rand(Shape{3, 3}, tensor.Float32, backend)
func Rand[B Backend](shape Shape, dtype DataType, b B) *Tensor[B] {
	return RandWith(DefaultGenerator(), shape, dtype, b)
}

// RandWith is Rand with an explicit generator.
// Float64 tensors consume two generator outputs per element; all other
// dtypes draw a float32 and round it to the storage type.
func RandWith[B Backend](g *Generator, shape Shape, dtype DataType, b B) *Tensor[B] {
	t := Zeros(shape, dtype, b)
	if dtype == Float64 {
		g.FillUniform64(t.raw.AsFloat64())
		return t
	}
	samples := make([]float32, t.NumElements())
	g.FillUniform32(samples)
	narrowInto(t.raw, samples)
	return t
}

// Randn creates a tensor with standard normal values drawn from the
// default generator.
func Randn[B Backend](shape Shape, dtype DataType, b B) *Tensor[B] {
	return RandnWith(DefaultGenerator(), shape, dtype, b)
}

// RandnWith is Randn with an explicit generator.
func RandnWith[B Backend](g *Generator, shape Shape, dtype DataType, b B) *Tensor[B] {
	t := Zeros(shape, dtype, b)
	samples := make([]float32, t.NumElements())
	g.FillNormal32(samples)
	narrowInto(t.raw, samples)
	return t
}

// narrowInto stores float32 samples into r, rounding to r's dtype.
func narrowInto(r *RawTensor, samples []float32) {
	switch r.DType() {
	case Float32:
		copy(r.AsFloat32(), samples)
	case Float16:
		dst := r.AsFloat16()
		for i, v := range samples {
			dst[i] = float16.Fromfloat32(v)
		}
	default:
		fill(r, func(i int) float64 { return float64(samples[i]) })
	}
}

// fill sets every element i of r to f(i), rounded to r's dtype.
func fill(r *RawTensor, f func(i int) float64) {
	n := r.NumElements()
	switch r.DType() {
	case Float32:
		dst := r.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = float32(f(i))
		}
	case Float64:
		dst := r.AsFloat64()
		for i := 0; i < n; i++ {
			dst[i] = f(i)
		}
	case Float16:
		dst := r.AsFloat16()
		for i := 0; i < n; i++ {
			dst[i] = float16.Fromfloat32(float32(f(i)))
		}
	case BFloat16:
		dst := r.AsBFloat16()
		for i := 0; i < n; i++ {
			dst[i] = BF16FromFloat32(float32(f(i)))
		}
	}
}
