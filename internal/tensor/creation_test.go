package tensor

import (
	"math"
	"testing"

	"github.com/x448/float16"
)

func TestRandSeedZero(t *testing.T) {
	ManualSeed(0)
	x := Rand(Shape{3, 3}, Float32, mockBackend{})

	want := [][]float64{
		{0.4963, 0.7682, 0.0885},
		{0.1320, 0.3074, 0.6341},
		{0.4901, 0.8964, 0.4556},
	}
	for i := range want {
		for j := range want[i] {
			if got := x.At(i, j); math.Abs(got-want[i][j]) > 5e-5 {
				t.Errorf("At(%d, %d) = %.6f, want %.4f", i, j, got, want[i][j])
			}
		}
	}
}

func TestRandIsReproducible(t *testing.T) {
	for _, dt := range []DataType{Float32, Float64, Float16, BFloat16} {
		ManualSeed(7)
		a := Rand(Shape{4, 5}, dt, mockBackend{}).Float64s()
		ManualSeed(7)
		b := Rand(Shape{4, 5}, dt, mockBackend{}).Float64s()
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: element %d differs after reseed: %v vs %v", dt, i, a[i], b[i])
			}
			if a[i] < 0 || a[i] > 1 {
				t.Fatalf("%s: element %d = %v outside [0, 1]", dt, i, a[i])
			}
		}
	}
}

func TestRandWithIndependentGenerator(t *testing.T) {
	g := NewGenerator(0)
	ManualSeed(99)
	x := RandWith(g, Shape{3}, Float32, mockBackend{})
	if got := x.At(0); math.Abs(got-0.4963) > 5e-5 {
		t.Errorf("At(0) = %v, want 0.4963", got)
	}
}

func TestRandnShapeAndDType(t *testing.T) {
	ManualSeed(0)
	x := Randn(Shape{2, 17}, Float16, mockBackend{})
	if !x.Shape().Equal(Shape{2, 17}) {
		t.Errorf("shape = %v, want [2 17]", x.Shape())
	}
	if x.DType() != Float16 {
		t.Errorf("dtype = %s, want float16", x.DType())
	}
}

func TestFullRoundsToDType(t *testing.T) {
	x := Full(Shape{2}, 0.1, Float16, mockBackend{})
	want := float64(float16.Fromfloat32(0.1).Float32())
	if got := x.At(0); got != want {
		t.Errorf("Full float16 0.1 = %v, want %v", got, want)
	}

	b := Full(Shape{2}, 1.00390625, BFloat16, mockBackend{}) // 1 + 2^-8 is a tie
	if got := b.At(1); got != 1 {
		t.Errorf("Full bfloat16 tie = %v, want 1 (round to even)", got)
	}
}

func TestFromSliceAndValues(t *testing.T) {
	x, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3}, mockBackend{})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if x.DType() != Float64 {
		t.Errorf("dtype = %s, want float64", x.DType())
	}
	if got := x.At(1, 2); got != 6 {
		t.Errorf("At(1, 2) = %v, want 6", got)
	}

	Values[float64](x)[0] = 10
	if got := x.At(0, 0); got != 10 {
		t.Errorf("Values view did not alias storage: At(0, 0) = %v", got)
	}

	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, mockBackend{}); err == nil {
		t.Error("expected error for element count mismatch")
	}
}

func TestValuesWrongTypePanics(t *testing.T) {
	x := Zeros(Shape{2}, Float16, mockBackend{})
	defer func() {
		r := recover()
		err, ok := r.(*DTypeError)
		if !ok {
			t.Fatalf("expected *DTypeError panic, got %v", r)
		}
		if err.Got != Float16 || err.Want != Float32 {
			t.Errorf("DTypeError = %+v", err)
		}
	}()
	_ = Values[float32](x)
}

func TestToSameDTypeIsIdentity(t *testing.T) {
	x := Zeros(Shape{2, 2}, Float32, mockBackend{})
	if x.To(Float32) != x {
		t.Error("To(same dtype) should return the receiver")
	}

	h := x.To(Float16)
	if h.DType() != Float16 || !h.Shape().Equal(x.Shape()) {
		t.Errorf("To(Float16) = %v", h)
	}
	if h.To(Float16) != h {
		t.Error("casting twice to the same dtype should be idempotent")
	}
}

func TestSetAndItem(t *testing.T) {
	x := Zeros(Shape{1}, BFloat16, mockBackend{})
	x.Set(3.5, 0)
	if got := x.Item(); got != 3.5 {
		t.Errorf("Item() = %v, want 3.5", got)
	}
}
