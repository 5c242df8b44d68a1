// Package network assembles the benchmark's convolutional classifier.
//
// The topology is fixed: three 3x3 convolutions (3→16→32→64 channels,
// stride 1, padding 1), each followed by ReLU and a 2x2 max-pool, then a
// linear layer from 64*4*4 features to NumClasses and log-softmax over the
// class dimension. A 32x32 input therefore reaches fc1 as 4x4 feature maps.
package network

import (
	"fmt"
	"strings"

	"github.com/born-ml/floatbench/internal/nn"
	"github.com/born-ml/floatbench/internal/tensor"
)

const (
	// NumClasses is the width of the output layer.
	// The value is hard-coded by the reference model and not derived from data.
	NumClasses = 2

	// InputSize is the spatial size (height and width) the topology expects.
	InputSize = 32

	// InChannels is the number of input channels (RGB).
	InChannels = 3

	// FC1InFeatures is the flattened size after three conv+pool stages on a
	// 32x32 input: 64 channels of 4x4.
	FC1InFeatures = 64 * 4 * 4
)

// Net is the 3-conv + 1-linear classifier.
type Net[B tensor.Backend] struct {
	netType NetType

	conv1 *nn.Conv2D[B]
	conv2 *nn.Conv2D[B]
	conv3 *nn.Conv2D[B]
	fc1   *nn.Linear[B]

	// features chains the three conv+relu+pool stages and the flatten.
	features *nn.Sequential[B]
	logSM    *nn.LogSoftmax[B]
}

// New builds the network with parameters of the given precision.
// Parameters are initialized in float32 from the default generator and then
// cast, so a fixed seed yields the same weights (up to rounding) for every type.
func New[B tensor.Backend](netType NetType, backend B) *Net[B] {
	if !netType.Valid() {
		panic(fmt.Sprintf("network: invalid net type %d", int(netType)))
	}

	n := &Net[B]{
		conv1: nn.NewConv2D(InChannels, 16, 3, 3, 1, 1, true, backend),
		conv2: nn.NewConv2D(16, 32, 3, 3, 1, 1, true, backend),
		conv3: nn.NewConv2D(32, 64, 3, 3, 1, 1, true, backend),
		fc1:   nn.NewLinear(FC1InFeatures, NumClasses, backend),
		logSM: nn.NewLogSoftmax[B](1),
	}

	relu := nn.NewReLU[B]()
	pool := nn.NewMaxPool2D(2, 2, backend)
	n.features = nn.NewSequential[B](
		n.conv1, relu, pool,
		n.conv2, relu, pool,
		n.conv3, relu, pool,
		nn.NewFlatten[B](),
	)
	n.To(netType)
	return n
}

// Forward maps x of shape (N, 3, H, W) to log-probabilities of shape (N, 2).
//
// H and W must reduce to 4 after three halvings (32x32 in practice);
// otherwise fc1 panics with a *tensor.ShapeError. An input whose dtype
// differs from the network's panics with a *tensor.DTypeError.
func (n *Net[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	x = n.features.Forward(x)
	x = n.fc1.Forward(x)
	return n.logSM.Forward(x)
}

// Parameters returns all parameters in layer order.
func (n *Net[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, l := range n.layers() {
		params = append(params, l.module.Parameters()...)
	}
	return params
}

// NamedParameter pairs a parameter with its qualified name, e.g. "conv1.weight".
type NamedParameter[B tensor.Backend] struct {
	Name      string
	Parameter *nn.Parameter[B]
}

// NamedParameters returns all parameters with names qualified by layer.
func (n *Net[B]) NamedParameters() []NamedParameter[B] {
	var out []NamedParameter[B]
	for _, l := range n.layers() {
		for _, p := range l.module.Parameters() {
			out = append(out, NamedParameter[B]{Name: l.name + "." + p.Name(), Parameter: p})
		}
	}
	return out
}

// Type returns the precision the network was last converted to.
func (n *Net[B]) Type() NetType {
	return n.netType
}

// To converts every parameter to the precision of netType in place.
func (n *Net[B]) To(netType NetType) {
	if !netType.Valid() {
		panic(fmt.Sprintf("network: invalid net type %d", int(netType)))
	}
	nn.ConvertParameters(n.Parameters(), netType.DataType())
	n.netType = netType
}

// LayerTypes reports the dtype of each learnable layer, keyed by layer name.
// The parameter tensors are the source of truth.
func (n *Net[B]) LayerTypes() map[string]tensor.DataType {
	out := make(map[string]tensor.DataType, 4)
	for _, l := range n.layers() {
		out[l.name] = l.module.Parameters()[0].DType()
	}
	return out
}

// String renders the architecture one layer per line.
func (n *Net[B]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Net(type=%s)(\n", n.netType)
	for _, l := range n.layers() {
		fmt.Fprintf(&sb, "  (%s): %v\n", l.name, l.module)
	}
	sb.WriteString(")")
	return sb.String()
}

type namedLayer[B tensor.Backend] struct {
	name   string
	module nn.Module[B]
}

func (n *Net[B]) layers() []namedLayer[B] {
	return []namedLayer[B]{
		{"conv1", n.conv1},
		{"conv2", n.conv2},
		{"conv3", n.conv3},
		{"fc1", n.fc1},
	}
}
