package tensor

// mockBackend satisfies Backend for tests that only need creation,
// formatting and casting. Compute operations are not implemented.
type mockBackend struct{}

func (mockBackend) Add(_, _ *RawTensor) *RawTensor                 { panic("not implemented") }
func (mockBackend) MatMul(_, _ *RawTensor) *RawTensor              { panic("not implemented") }
func (mockBackend) Conv2D(_, _ *RawTensor, _, _ int) *RawTensor    { panic("not implemented") }
func (mockBackend) MaxPool2D(_ *RawTensor, _, _ int) *RawTensor    { panic("not implemented") }
func (mockBackend) Transpose(_ *RawTensor, _ ...int) *RawTensor    { panic("not implemented") }
func (mockBackend) ReLU(_ *RawTensor) *RawTensor                   { panic("not implemented") }
func (mockBackend) Softmax(_ *RawTensor, _ int) *RawTensor         { panic("not implemented") }
func (mockBackend) LogSoftmax(_ *RawTensor, _ int) *RawTensor      { panic("not implemented") }
func (mockBackend) Name() string                                   { return "mock" }
func (mockBackend) Device() Device                                 { return CPU }

func (mockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	resolved, err := newShape.Resolve(t.NumElements())
	if err != nil {
		panic(err)
	}
	view, err := t.View(resolved)
	if err != nil {
		panic(err)
	}
	return view
}

func (mockBackend) Cast(x *RawTensor, dtype DataType) *RawTensor {
	if x.DType() == dtype {
		return x
	}
	out, err := NewRaw(x.Shape(), dtype, x.Device())
	if err != nil {
		panic(err)
	}
	fill(out, x.Float64At)
	return out
}
