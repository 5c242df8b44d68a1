package tensor

import (
	"math"
	"testing"

	"github.com/x448/float16"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Float16, 2},
		{BFloat16, 2},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeNames(t *testing.T) {
	tests := []struct {
		dtype    DataType
		str      string
		typeName string
		reduced  bool
	}{
		{Float32, "float32", "Float", false},
		{Float64, "float64", "Double", false},
		{Float16, "float16", "Half", true},
		{BFloat16, "bfloat16", "BFloat16", true},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.dtype.TypeName(); got != tt.typeName {
			t.Errorf("%s.TypeName() = %q, want %q", tt.dtype, got, tt.typeName)
		}
		if got := tt.dtype.IsReduced(); got != tt.reduced {
			t.Errorf("%s.IsReduced() = %v, want %v", tt.dtype, got, tt.reduced)
		}
	}
}

func TestParseDataType(t *testing.T) {
	for name, want := range map[string]DataType{
		"float": Float32, "float32": Float32,
		"double": Float64, "float64": Float64,
		"half": Float16, "float16": Float16,
		"bf16": BFloat16, "bfloat16": BFloat16,
	} {
		got, err := ParseDataType(name)
		if err != nil || got != want {
			t.Errorf("ParseDataType(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseDataType("int8"); err == nil {
		t.Error("ParseDataType(int8) should fail")
	}
}

func TestDataTypeOf(t *testing.T) {
	if dt := dataTypeOf[float32](); dt != Float32 {
		t.Errorf("dataTypeOf[float32] = %v", dt)
	}
	if dt := dataTypeOf[float64](); dt != Float64 {
		t.Errorf("dataTypeOf[float64] = %v", dt)
	}
	if dt := dataTypeOf[float16.Float16](); dt != Float16 {
		t.Errorf("dataTypeOf[float16.Float16] = %v", dt)
	}
	if dt := dataTypeOf[BF16](); dt != BFloat16 {
		t.Errorf("dataTypeOf[BF16] = %v", dt)
	}
}

func TestBF16Rounding(t *testing.T) {
	tests := []struct {
		in   float32
		bits uint16
	}{
		{1, 0x3F80},
		{-2, 0xC000},
		{1.00390625, 0x3F80}, // halfway, mantissa even: round down
		{1.01171875, 0x3F82}, // halfway, mantissa odd: round up
		{1.0040, 0x3F81},     // above halfway
		{float32(math.Inf(1)), 0x7F80},
	}
	for _, tt := range tests {
		if got := BF16FromFloat32(tt.in).Bits(); got != tt.bits {
			t.Errorf("BF16FromFloat32(%v) = %#04x, want %#04x", tt.in, got, tt.bits)
		}
	}

	nan := BF16FromFloat32(float32(math.NaN()))
	if f := nan.Float32(); f == f {
		t.Errorf("NaN converted to %v", f)
	}
	if got := BF16FromBits(0x4049).Float32(); got != 3.140625 {
		t.Errorf("BF16FromBits(0x4049) = %v, want 3.140625", got)
	}
}
