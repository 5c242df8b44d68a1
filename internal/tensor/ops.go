package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a := tensor.Full(Shape{3, 1}, 1, tensor.Float32, backend)
//	b := tensor.Full(Shape{3, 5}, 1, tensor.Float32, backend)
//	c := a.Add(b) // Shape: [3, 5] (broadcasted)
func (t *Tensor[B]) Add(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Add(t.raw, other.raw), t.backend)
}

// MatMul performs matrix multiplication: (M, K) @ (K, N) → (M, N).
//
// Example:
//
//	a := tensor.Randn(Shape{3, 4}, tensor.Float32, backend)
//	b := tensor.Randn(Shape{4, 5}, tensor.Float32, backend)
//	c := a.MatMul(b) // Shape: [3, 5]
func (t *Tensor[B]) MatMul(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.MatMul(t.raw, other.raw), t.backend)
}

// Reshape returns a tensor with the same data but different shape.
// One dimension may be -1 and is inferred from the element count.
//
// Example:
//
//	t := tensor.Zeros(Shape{2, 3, 4}, tensor.Float32, backend)
//	flat := t.Reshape(2, -1) // Shape: [2, 12]
func (t *Tensor[B]) Reshape(newShape ...int) *Tensor[B] {
	return New(t.backend.Reshape(t.raw, Shape(newShape)), t.backend)
}

// Transpose transposes the tensor by permuting its dimensions.
//
// If axes is empty, reverses all dimensions (for 2D, this is standard transpose).
// Otherwise, axes specifies the permutation.
func (t *Tensor[B]) Transpose(axes ...int) *Tensor[B] {
	return New(t.backend.Transpose(t.raw, axes...), t.backend)
}

// T is a shortcut for 2D transpose (swaps rows and columns).
// Panics if the tensor is not 2D.
func (t *Tensor[B]) T() *Tensor[B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}

// ReLU applies max(0, x) element-wise.
func (t *Tensor[B]) ReLU() *Tensor[B] {
	return New(t.backend.ReLU(t.raw), t.backend)
}

// Softmax normalizes along dim so that each slice sums to one.
func (t *Tensor[B]) Softmax(dim int) *Tensor[B] {
	return New(t.backend.Softmax(t.raw, dim), t.backend)
}

// LogSoftmax computes log(softmax(x)) along dim in a numerically stable way.
func (t *Tensor[B]) LogSoftmax(dim int) *Tensor[B] {
	return New(t.backend.LogSoftmax(t.raw, dim), t.backend)
}
