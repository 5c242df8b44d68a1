package bench

import (
	"fmt"
	"io"
	"math"

	"github.com/x448/float16"

	"github.com/born-ml/floatbench/internal/tensor"
)

// PrecisionReport summarises the rounding error of a cast.
type PrecisionReport struct {
	From, To tensor.DataType
	Elements int

	// Inexact counts elements whose value changed.
	Inexact int

	// Overflow and Underflow count elements that became ±Inf or flushed to
	// zero. Only float16 targets are classified.
	Overflow  int
	Underflow int

	// MaxAbsError and MaxRelError cover elements that stayed finite.
	MaxAbsError float64
	MaxRelError float64
}

// PrecisionLoss compares src with its cast dst element by element.
// Both tensors must have the same shape.
func PrecisionLoss[B tensor.Backend](src, dst *tensor.Tensor[B]) (PrecisionReport, error) {
	if !src.Shape().Equal(dst.Shape()) {
		return PrecisionReport{}, fmt.Errorf("precision loss: shape %v does not match %v", dst.Shape(), src.Shape())
	}

	r := PrecisionReport{From: src.DType(), To: dst.DType(), Elements: src.NumElements()}
	a, b := src.Float64s(), dst.Float64s()
	for i := range a {
		if dst.DType() == tensor.Float16 {
			switch float16.PrecisionFromfloat32(float32(a[i])) {
			case float16.PrecisionOverflow:
				r.Overflow++
			case float16.PrecisionUnderflow:
				r.Underflow++
			}
		}

		if a[i] == b[i] || (math.IsNaN(a[i]) && math.IsNaN(b[i])) {
			continue
		}
		r.Inexact++
		diff := math.Abs(a[i] - b[i])
		if math.IsInf(diff, 0) || math.IsNaN(diff) {
			continue
		}
		if diff > r.MaxAbsError {
			r.MaxAbsError = diff
		}
		if a[i] != 0 {
			if rel := diff / math.Abs(a[i]); rel > r.MaxRelError {
				r.MaxRelError = rel
			}
		}
	}
	return r, nil
}

// Fprint writes the report on one line.
func (r PrecisionReport) Fprint(w io.Writer) {
	fmt.Fprintf(w, "Cast %s -> %s: %d/%d inexact, max abs error %.3g, max rel error %.3g",
		r.From, r.To, r.Inexact, r.Elements, r.MaxAbsError, r.MaxRelError)
	if r.Overflow > 0 || r.Underflow > 0 {
		fmt.Fprintf(w, ", %d overflow, %d underflow", r.Overflow, r.Underflow)
	}
	fmt.Fprintln(w)
}
