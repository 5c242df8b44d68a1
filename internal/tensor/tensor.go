package tensor

import (
	"fmt"

	"github.com/x448/float16"
)

// Tensor is a multi-dimensional array bound to a computation backend B.
// The element type is runtime metadata (see DataType): a network can be
// moved between precisions without changing its Go type.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros(Shape{3, 4}, tensor.Float32, backend)
//	h := t.To(tensor.Float16) // same shape, half precision
type Tensor[B Backend] struct {
	raw     *RawTensor
	backend B
}

// New creates a Tensor from a RawTensor and backend.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return &Tensor[B]{
		raw:     raw,
		backend: b,
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory and the dtype follows T.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[B], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape, dataTypeOf[T](), b.Device())
	if err != nil {
		return nil, err
	}

	t := New(raw, b)
	copy(Values[T](t), data)

	return t, nil
}

// Values returns a typed slice view of the tensor's data (zero-copy).
// Panics with a DTypeError if T does not match the tensor's dtype.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func Values[T DType, B Backend](t *Tensor[B]) []T {
	want := dataTypeOf[T]()
	if t.DType() != want {
		panic(&DTypeError{Op: "values", Got: t.DType(), Want: want})
	}
	switch want {
	case Float32:
		return any(t.raw.AsFloat32()).([]T)
	case Float64:
		return any(t.raw.AsFloat64()).([]T)
	case Float16:
		return any(t.raw.AsFloat16()).([]T)
	default:
		return any(t.raw.AsBFloat16()).([]T)
	}
}

// Shape returns the tensor's shape.
func (t *Tensor[B]) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the tensor's data type.
func (t *Tensor[B]) DType() DataType {
	return t.raw.DType()
}

// Device returns the tensor's compute device.
func (t *Tensor[B]) Device() Device {
	return t.raw.Device()
}

// NumElements returns the total number of elements.
func (t *Tensor[B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
// Used by backend implementations for low-level operations.
func (t *Tensor[B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[B]) Backend() B {
	return t.backend
}

// At returns the element at the given indices, widened to float64.
// Panics if indices are out of bounds.
//
// Example:
//
//	t := tensor.Zeros(Shape{3, 4}, tensor.Float16, backend)
//	value := t.At(1, 2) // Row 1, column 2
func (t *Tensor[B]) At(indices ...int) float64 {
	return t.raw.Float64At(t.flatIndex(indices))
}

// Set stores value at the given indices, rounding it to the tensor's dtype.
// Panics if indices are out of bounds.
func (t *Tensor[B]) Set(value float64, indices ...int) {
	i := t.flatIndex(indices)
	switch t.DType() {
	case Float32:
		t.raw.AsFloat32()[i] = float32(value)
	case Float64:
		t.raw.AsFloat64()[i] = value
	case Float16:
		t.raw.AsFloat16()[i] = float16.Fromfloat32(float32(value))
	case BFloat16:
		t.raw.AsBFloat16()[i] = BF16FromFloat32(float32(value))
	}
}

func (t *Tensor[B]) flatIndex(indices []int) int {
	if len(indices) != len(t.Shape()) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.Shape()), len(indices)))
	}

	// Calculate flat index using strides
	offset := 0
	strides := t.raw.Strides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.Shape()[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.Shape()[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// Item returns the scalar value of a single-element tensor.
func (t *Tensor[B]) Item() float64 {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", t.Shape()))
	}
	return t.raw.Float64At(0)
}

// Float64s returns a copy of all elements widened to float64, in row-major order.
func (t *Tensor[B]) Float64s() []float64 {
	out := make([]float64, t.NumElements())
	for i := range out {
		out[i] = t.raw.Float64At(i)
	}
	return out
}

// To converts the tensor to dtype. Converting to the current dtype
// returns t itself.
func (t *Tensor[B]) To(dtype DataType) *Tensor[B] {
	if t.DType() == dtype {
		return t
	}
	return New(t.backend.Cast(t.raw, dtype), t.backend)
}

// String returns a short description of the tensor.
func (t *Tensor[B]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.raw.DType(), t.raw.Shape(), t.raw.Device())
}

// Clone creates a copy of the tensor that shares its buffer.
func (t *Tensor[B]) Clone() *Tensor[B] {
	return &Tensor[B]{
		raw:     t.raw.Clone(),
		backend: t.backend,
	}
}
