package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/floatbench/internal/tensor"
)

// TestConv2D_BasicForward tests basic Conv2D forward pass.
func TestConv2D_BasicForward(t *testing.T) {
	backend := New()

	// Input: [1, 1, 3, 3]
	// 1 2 3
	// 4 5 6
	// 7 8 9
	input, _ := tensor.NewRaw(tensor.Shape{1, 1, 3, 3}, tensor.Float32, tensor.CPU)
	inputData := input.AsFloat32()
	for i := 0; i < 9; i++ {
		inputData[i] = float32(i + 1)
	}

	// Kernel: [1, 1, 2, 2] diagonal
	kernel, _ := tensor.NewRaw(tensor.Shape{1, 1, 2, 2}, tensor.Float32, tensor.CPU)
	copy(kernel.AsFloat32(), []float32{1, 0, 0, 1})

	output := backend.Conv2D(input, kernel, 1, 0)

	expectedShape := tensor.Shape{1, 1, 2, 2}
	if !output.Shape().Equal(expectedShape) {
		t.Fatalf("Expected shape %v, got %v", expectedShape, output.Shape())
	}

	expected := []float32{6, 8, 12, 14}
	for i, exp := range expected {
		if got := output.AsFloat32()[i]; got != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

// TestConv2D_WithPadding checks that padding=1 keeps the spatial size and
// pads with zeros.
func TestConv2D_WithPadding(t *testing.T) {
	backend := New()

	input, _ := tensor.NewRaw(tensor.Shape{1, 1, 3, 3}, tensor.Float64, tensor.CPU)
	kernel, _ := tensor.NewRaw(tensor.Shape{1, 1, 3, 3}, tensor.Float64, tensor.CPU)
	for i := 0; i < 9; i++ {
		input.AsFloat64()[i] = 1
		kernel.AsFloat64()[i] = 1
	}

	output := backend.Conv2D(input, kernel, 1, 1)
	if !output.Shape().Equal(tensor.Shape{1, 1, 3, 3}) {
		t.Fatalf("Expected shape [1 1 3 3], got %v", output.Shape())
	}

	// Corners see 4 inputs, edges 6, center 9.
	expected := []float64{4, 6, 4, 6, 9, 6, 4, 6, 4}
	for i, exp := range expected {
		if got := output.AsFloat64()[i]; got != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

// TestConv2D_BatchAndChannels compares the GEMM path with a direct loop.
func TestConv2D_BatchAndChannels(t *testing.T) {
	backend := New()
	const n, cIn, cOut, h, w, k = 2, 3, 4, 5, 6, 3

	input, _ := tensor.NewRaw(tensor.Shape{n, cIn, h, w}, tensor.Float32, tensor.CPU)
	kernel, _ := tensor.NewRaw(tensor.Shape{cOut, cIn, k, k}, tensor.Float32, tensor.CPU)
	in := input.AsFloat32()
	ker := kernel.AsFloat32()
	for i := range in {
		in[i] = float32(math.Sin(float64(i)))
	}
	for i := range ker {
		ker[i] = float32(math.Cos(float64(i)))
	}

	out := backend.Conv2D(input, kernel, 1, 1).AsFloat32()

	for b := 0; b < n; b++ {
		for co := 0; co < cOut; co++ {
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					var want float64
					for ci := 0; ci < cIn; ci++ {
						for ky := 0; ky < k; ky++ {
							for kx := 0; kx < k; kx++ {
								iy, ix := y+ky-1, x+kx-1
								if iy < 0 || iy >= h || ix < 0 || ix >= w {
									continue
								}
								want += float64(in[((b*cIn+ci)*h+iy)*w+ix]) * float64(ker[((co*cIn+ci)*k+ky)*k+kx])
							}
						}
					}
					got := out[((b*cOut+co)*h+y)*w+x]
					if math.Abs(float64(got)-want) > 1e-4 {
						t.Fatalf("out[%d,%d,%d,%d] = %v, want %v", b, co, y, x, got, want)
					}
				}
			}
		}
	}
}

func TestConv2D_HalfPrecision(t *testing.T) {
	backend := New()

	input, _ := tensor.NewRaw(tensor.Shape{1, 1, 3, 3}, tensor.Float32, tensor.CPU)
	kernel, _ := tensor.NewRaw(tensor.Shape{1, 1, 2, 2}, tensor.Float32, tensor.CPU)
	for i := 0; i < 9; i++ {
		input.AsFloat32()[i] = float32(i + 1)
	}
	copy(kernel.AsFloat32(), []float32{1, 0, 0, 1})

	output := backend.Conv2D(backend.Cast(input, tensor.Float16), backend.Cast(kernel, tensor.Float16), 1, 0)
	if output.DType() != tensor.Float16 {
		t.Fatalf("Expected float16 output, got %s", output.DType())
	}
	for i, exp := range []float64{6, 8, 12, 14} {
		if got := output.Float64At(i); got != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, got)
		}
	}
}

func TestConv2D_ChannelMismatchPanics(t *testing.T) {
	backend := New()
	input, _ := tensor.NewRaw(tensor.Shape{1, 2, 4, 4}, tensor.Float32, tensor.CPU)
	kernel, _ := tensor.NewRaw(tensor.Shape{1, 3, 3, 3}, tensor.Float32, tensor.CPU)

	defer func() {
		if _, ok := recover().(*tensor.ShapeError); !ok {
			t.Error("expected *tensor.ShapeError panic")
		}
	}()
	backend.Conv2D(input, kernel, 1, 1)
}

func TestConv2D_MixedDTypePanics(t *testing.T) {
	backend := New()
	input, _ := tensor.NewRaw(tensor.Shape{1, 1, 4, 4}, tensor.Float16, tensor.CPU)
	kernel, _ := tensor.NewRaw(tensor.Shape{1, 1, 3, 3}, tensor.Float32, tensor.CPU)

	defer func() {
		if _, ok := recover().(*tensor.DTypeError); !ok {
			t.Error("expected *tensor.DTypeError panic")
		}
	}()
	backend.Conv2D(input, kernel, 1, 1)
}
