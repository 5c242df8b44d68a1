package network_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/floatbench/internal/backend/cpu"
	"github.com/born-ml/floatbench/internal/network"
	"github.com/born-ml/floatbench/internal/tensor"
)

func TestForwardShapeAndLogProbabilities(t *testing.T) {
	backend := cpu.New()
	tensor.ManualSeed(0)
	net := network.New(network.Float32, backend)

	for _, batch := range []int{1, 4} {
		x := tensor.Rand(tensor.Shape{batch, 3, 32, 32}, tensor.Float32, backend)
		out := net.Forward(x)

		require.Equal(t, tensor.Shape{batch, network.NumClasses}, out.Shape())
		for i := 0; i < batch; i++ {
			sum := 0.0
			for j := 0; j < network.NumClasses; j++ {
				v := out.At(i, j)
				assert.LessOrEqual(t, v, 0.0)
				sum += math.Exp(v)
			}
			assert.InDelta(t, 1, sum, 1e-5, "row %d", i)
		}
	}
}

func TestForwardEveryNetType(t *testing.T) {
	backend := cpu.New()
	tolerance := map[network.NetType]float64{
		network.Float32:  1e-5,
		network.Double:   1e-12,
		network.Half:     5e-3,
		network.BFloat16: 3e-2,
	}

	for _, nt := range network.AllTypes {
		t.Run(nt.String(), func(t *testing.T) {
			tensor.ManualSeed(1)
			net := network.New(nt, backend)
			assert.Equal(t, nt, net.Type())

			x := tensor.Rand(tensor.Shape{2, 3, 32, 32}, nt.DataType(), backend)
			out := net.Forward(x)
			assert.Equal(t, nt.DataType(), out.DType())
			assert.Equal(t, tensor.Shape{2, 2}, out.Shape())

			for i := 0; i < 2; i++ {
				sum := math.Exp(out.At(i, 0)) + math.Exp(out.At(i, 1))
				assert.InDelta(t, 1, sum, tolerance[nt])
			}
		})
	}
}

func TestForwardWrongSpatialSizePanics(t *testing.T) {
	backend := cpu.New()
	net := network.New(network.Float32, backend)
	x := tensor.Rand(tensor.Shape{1, 3, 30, 30}, tensor.Float32, backend)

	defer func() {
		err, ok := recover().(*tensor.ShapeError)
		require.True(t, ok, "expected *tensor.ShapeError")
		assert.Contains(t, err.Error(), "1x576 and 1024x2")
	}()
	net.Forward(x)
}

func TestForwardMixedDTypePanics(t *testing.T) {
	backend := cpu.New()
	net := network.New(network.Half, backend)
	x := tensor.Rand(tensor.Shape{1, 3, 32, 32}, tensor.Float32, backend)

	defer func() {
		_, ok := recover().(*tensor.DTypeError)
		assert.True(t, ok, "expected *tensor.DTypeError")
	}()
	net.Forward(x)
}

func TestNamedParameters(t *testing.T) {
	net := network.New(network.Float32, cpu.New())

	want := map[string]tensor.Shape{
		"conv1.weight": {16, 3, 3, 3},
		"conv1.bias":   {16},
		"conv2.weight": {32, 16, 3, 3},
		"conv2.bias":   {32},
		"conv3.weight": {64, 32, 3, 3},
		"conv3.bias":   {64},
		"fc1.weight":   {2, 1024},
		"fc1.bias":     {2},
	}

	named := net.NamedParameters()
	require.Len(t, named, len(want))
	assert.Equal(t, "conv1.weight", named[0].Name)
	assert.Equal(t, "fc1.bias", named[len(named)-1].Name)
	for _, np := range named {
		assert.Equal(t, want[np.Name], np.Parameter.Tensor().Shape(), np.Name)
	}
	assert.Len(t, net.Parameters(), 8)
}

func TestSeededConstructionIsReproducible(t *testing.T) {
	backend := cpu.New()

	tensor.ManualSeed(42)
	a := network.New(network.Float32, backend)
	tensor.ManualSeed(42)
	b := network.New(network.Float32, backend)

	pa, pb := a.Parameters(), b.Parameters()
	for i := range pa {
		assert.Equal(t, pa[i].Tensor().Float64s(), pb[i].Tensor().Float64s())
	}
}

func TestToConvertsEveryLayer(t *testing.T) {
	net := network.New(network.Float32, cpu.New())
	for _, dt := range net.LayerTypes() {
		assert.Equal(t, tensor.Float32, dt)
	}

	net.To(network.BFloat16)
	assert.Equal(t, network.BFloat16, net.Type())
	types := net.LayerTypes()
	assert.Len(t, types, 4)
	for name, dt := range types {
		assert.Equal(t, tensor.BFloat16, dt, name)
	}
}

func TestString(t *testing.T) {
	s := network.New(network.Half, cpu.New()).String()
	assert.Contains(t, s, "Net(type=half)")
	assert.Contains(t, s, "(conv1): Conv2D(3, 16, kernel_size=[3, 3], stride=[1, 1], padding=[1, 1], bias=true)")
	assert.Contains(t, s, "(fc1): Linear(in_features=1024, out_features=2, bias=true)")
}

func TestNetTypes(t *testing.T) {
	tests := []struct {
		name string
		want network.NetType
	}{
		{"float32", network.Float32},
		{"FLOAT", network.Float32},
		{"double", network.Double},
		{"float64", network.Double},
		{"half", network.Half},
		{"float16", network.Half},
		{"bfloat16", network.BFloat16},
		{" bf16 ", network.BFloat16},
	}
	for _, tt := range tests {
		got, err := network.ParseNetType(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := network.ParseNetType("int8")
	assert.Error(t, err)

	assert.False(t, network.NetType(7).Valid())
	assert.Equal(t, "NetType(7)", network.NetType(7).String())
	assert.Panics(t, func() { network.New(network.NetType(7), cpu.New()) })
}
