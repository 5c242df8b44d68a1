package nn

import (
	"fmt"

	"github.com/born-ml/floatbench/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU to the input.
func (r *ReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.ReLU()
}

// Parameters returns an empty slice.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// String returns the layer name.
func (r *ReLU[B]) String() string {
	return "ReLU()"
}

// LogSoftmax computes log(softmax(x)) along a fixed dimension.
//
// For classifier output [batch, classes] use dim 1: each row then holds
// log-probabilities whose exponentials sum to one.
type LogSoftmax[B tensor.Backend] struct {
	dim int
}

// NewLogSoftmax creates a LogSoftmax over dim. Negative dims count from the end.
func NewLogSoftmax[B tensor.Backend](dim int) *LogSoftmax[B] {
	return &LogSoftmax[B]{dim: dim}
}

// Forward applies log-softmax to the input.
func (l *LogSoftmax[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.LogSoftmax(l.dim)
}

// Parameters returns an empty slice.
func (l *LogSoftmax[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// String returns the layer configuration.
func (l *LogSoftmax[B]) String() string {
	return fmt.Sprintf("LogSoftmax(dim=%d)", l.dim)
}

// Flatten keeps the batch dimension and collapses the rest:
// [N, d1, d2, ...] -> [N, d1*d2*...].
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a new Flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return &Flatten[B]{}
}

// Forward reshapes the input to [N, -1].
func (f *Flatten[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) < 1 {
		panic(&tensor.ShapeError{Op: "flatten", Shapes: []tensor.Shape{shape}, Reason: "expected a batch dimension"})
	}
	return input.Reshape(shape[0], -1)
}

// Parameters returns an empty slice.
func (f *Flatten[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// String returns the layer name.
func (f *Flatten[B]) String() string {
	return "Flatten()"
}
