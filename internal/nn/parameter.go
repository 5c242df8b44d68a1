package nn

import (
	"github.com/born-ml/floatbench/internal/tensor"
)

// Parameter represents a named weight or bias tensor of a layer.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
type Parameter[B tensor.Backend] struct {
	name   string            // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor[B] // The parameter tensor
}

// NewParameter creates a new parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}

// DType returns the dtype of the parameter tensor.
func (p *Parameter[B]) DType() tensor.DataType {
	return p.tensor.DType()
}

// To converts the parameter tensor to dtype in place.
// Converting to the current dtype leaves the tensor untouched.
func (p *Parameter[B]) To(dtype tensor.DataType) {
	p.tensor = p.tensor.To(dtype)
}

// SetTensor replaces the parameter tensor.
func (p *Parameter[B]) SetTensor(t *tensor.Tensor[B]) {
	p.tensor = t
}
