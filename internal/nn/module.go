// Package nn implements neural network modules for the floatbench engine.
//
// This package provides the building blocks of a convolutional classifier:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named weight and bias tensors
//   - Conv2D, Linear: Layers with parameters
//   - MaxPool2D, Flatten, ReLU, LogSoftmax: Parameter-free layers
//   - Sequential: Container for stacking layers
//
// Modules are precision-agnostic: their parameters carry a runtime dtype
// and can be converted in place with ConvertParameters.
package nn

import (
	"github.com/born-ml/floatbench/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(128, 10, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	// The input dtype must match the dtype of the module's parameters.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all parameters of this module, including those of
	// nested modules. Parameter-free modules return an empty slice.
	Parameters() []*Parameter[B]
}

// ConvertParameters converts every parameter to dtype in place.
func ConvertParameters[B tensor.Backend](params []*Parameter[B], dtype tensor.DataType) {
	for _, p := range params {
		p.To(dtype)
	}
}
