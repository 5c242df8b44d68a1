package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/floatbench/internal/backend/cpu"
	"github.com/born-ml/floatbench/internal/nn"
	"github.com/born-ml/floatbench/internal/tensor"
)

type backendT = *cpu.CPUBackend

func TestParameter(t *testing.T) {
	backend := cpu.New()

	data, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)
	param := nn.NewParameter("test_param", data)

	assert.Equal(t, "test_param", param.Name())
	assert.Same(t, data, param.Tensor())
	assert.Equal(t, tensor.Float32, param.DType())

	param.To(tensor.Float32)
	assert.Same(t, data, param.Tensor(), "same-dtype conversion keeps the tensor")

	param.To(tensor.BFloat16)
	assert.Equal(t, tensor.BFloat16, param.DType())
	assert.Equal(t, []float64{1, 2, 3}, param.Tensor().Float64s())
}

func TestXavierBoundsAndSeeding(t *testing.T) {
	backend := cpu.New()
	bound := math.Sqrt(6.0 / float64(27+144))

	tensor.ManualSeed(0)
	a := nn.Xavier(27, 144, tensor.Shape{16, 3, 3, 3}, backend)
	tensor.ManualSeed(0)
	b := nn.Xavier(27, 144, tensor.Shape{16, 3, 3, 3}, backend)

	assert.Equal(t, a.Float64s(), b.Float64s(), "same seed, same weights")
	for _, v := range a.Float64s() {
		assert.LessOrEqual(t, math.Abs(v), bound+1e-6)
	}
}

func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(3, 2, backend)

	assert.Equal(t, 3, layer.InFeatures())
	assert.Equal(t, 2, layer.OutFeatures())
	assert.Equal(t, tensor.Shape{2, 3}, layer.Weight().Tensor().Shape())

	copy(tensor.Values[float32](layer.Weight().Tensor()), []float32{1, 0, 0, 0, 1, 1})
	copy(tensor.Values[float32](layer.Bias().Tensor()), []float32{0.5, -0.5})

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)

	out := layer.Forward(x)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float64{1.5, 4.5, 4.5, 10.5}, out.Float64s())
}

func TestLinear_FeatureMismatch(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(1024, 2, backend)
	x := tensor.Zeros(tensor.Shape{1, 576}, tensor.Float32, backend)

	defer func() {
		err, ok := recover().(*tensor.ShapeError)
		require.True(t, ok, "expected *tensor.ShapeError")
		assert.Contains(t, err.Error(), "(1x576 and 1024x2)")
	}()
	layer.Forward(x)
}

func TestConv2D_ForwardWithBias(t *testing.T) {
	backend := cpu.New()
	conv := nn.NewConv2D(1, 2, 1, 1, 1, 0, true, backend)

	assert.Equal(t, 1, conv.InChannels())
	assert.Equal(t, 2, conv.OutChannels())
	assert.Equal(t, [2]int{1, 1}, conv.KernelSize())
	assert.Len(t, conv.Parameters(), 2)

	copy(tensor.Values[float32](conv.Weight().Tensor()), []float32{2, -1})
	copy(tensor.Values[float32](conv.Bias().Tensor()), []float32{10, 20})

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2}, backend)
	require.NoError(t, err)

	out := conv.Forward(x)
	assert.Equal(t, tensor.Shape{1, 2, 2, 2}, out.Shape())
	assert.Equal(t, []float64{12, 14, 16, 18, 19, 18, 17, 16}, out.Float64s())
}

func TestConv2D_PaddingKeepsSize(t *testing.T) {
	backend := cpu.New()
	conv := nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend)

	assert.Equal(t, [2]int{32, 32}, conv.ComputeOutputSize(32, 32))
	out := conv.Forward(tensor.Zeros(tensor.Shape{2, 3, 32, 32}, tensor.Float32, backend))
	assert.Equal(t, tensor.Shape{2, 16, 32, 32}, out.Shape())
}

func TestConv2D_WrongChannels(t *testing.T) {
	backend := cpu.New()
	conv := nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend)

	assert.Panics(t, func() {
		conv.Forward(tensor.Zeros(tensor.Shape{1, 1, 8, 8}, tensor.Float32, backend))
	})
}

func TestMaxPool2D(t *testing.T) {
	backend := cpu.New()
	pool := nn.NewMaxPool2D(2, 2, backend)

	assert.Equal(t, [2]int{16, 16}, pool.ComputeOutputSize(32, 32))
	assert.Empty(t, pool.Parameters())

	x, err := tensor.FromSlice([]float64{1, 5, 3, 2}, tensor.Shape{1, 1, 2, 2}, backend)
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, pool.Forward(x).Float64s())
}

func TestActivations(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float32{-1, 2}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 2}, nn.NewReLU[backendT]().Forward(x).Float64s())

	ls := nn.NewLogSoftmax[backendT](1).Forward(x).Float64s()
	assert.InDelta(t, 1, math.Exp(ls[0])+math.Exp(ls[1]), 1e-6)
	assert.Less(t, ls[0], ls[1])
}

func TestFlatten(t *testing.T) {
	backend := cpu.New()
	x := tensor.Zeros(tensor.Shape{2, 64, 4, 4}, tensor.Float32, backend)

	out := nn.NewFlatten[backendT]().Forward(x)
	assert.Equal(t, tensor.Shape{2, 1024}, out.Shape())
}

func TestSequential(t *testing.T) {
	backend := cpu.New()

	model := nn.NewSequential[backendT](
		nn.NewConv2D(3, 4, 3, 3, 1, 1, true, backend),
		nn.NewReLU[backendT](),
		nn.NewMaxPool2D(2, 2, backend),
	)
	model.Add(nn.NewFlatten[backendT]())
	model.Add(nn.NewLinear(4*2*2, 2, backend))

	assert.Equal(t, 5, model.Len())
	assert.Len(t, model.Parameters(), 4)
	assert.Contains(t, model.String(), "(4): Linear(in_features=16, out_features=2, bias=true)")

	out := model.Forward(tensor.Rand(tensor.Shape{3, 3, 4, 4}, tensor.Float32, backend))
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())

	assert.Panics(t, func() { model.Module(5) })
}

func TestConvertParameters(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential[backendT](
		nn.NewConv2D(3, 4, 3, 3, 1, 1, true, backend),
		nn.NewMaxPool2D(2, 2, backend),
		nn.NewFlatten[backendT](),
		nn.NewLinear(4*2*2, 2, backend),
	)

	nn.ConvertParameters(model.Parameters(), tensor.Float16)
	for _, p := range model.Parameters() {
		assert.Equal(t, tensor.Float16, p.DType())
	}

	out := model.Forward(tensor.Rand(tensor.Shape{1, 3, 4, 4}, tensor.Float16, backend))
	assert.Equal(t, tensor.Float16, out.DType())

	// Float32 input against float16 parameters is rejected.
	assert.Panics(t, func() {
		model.Forward(tensor.Rand(tensor.Shape{1, 3, 4, 4}, tensor.Float32, backend))
	})
}
