// Package bench runs the floatbench workloads: the float32 to half cast demo
// and forward-pass timing of the network at every precision.
package bench

import (
	"fmt"
	"io"

	"github.com/born-ml/floatbench/internal/backend/cpu"
	"github.com/born-ml/floatbench/internal/marker"
	"github.com/born-ml/floatbench/internal/tensor"
)

// CastRegion is the marker region that brackets the half-precision cast.
const CastRegion = "to_float16"

// DemoResult holds both tensors of the cast demo.
type DemoResult struct {
	Original *tensor.Tensor[*cpu.CPUBackend]
	Half     *tensor.Tensor[*cpu.CPUBackend]
}

// CastDemo seeds the default generator with 0, draws a 3x3 uniform tensor,
// prints it, casts it to float16 inside the CastRegion marker region and
// prints the result.
func CastDemo(w io.Writer, ctx *marker.Context) (*DemoResult, error) {
	backend := cpu.New()

	tensor.ManualSeed(0)
	t := tensor.Rand(tensor.Shape{3, 3}, tensor.Float32, backend)
	if _, err := fmt.Fprintf(w, "Original Tensor:\n%s\n", t.Pretty()); err != nil {
		return nil, err
	}

	if err := ctx.ThreadInit(); err != nil {
		return nil, fmt.Errorf("marker thread init: %w", err)
	}

	var half *tensor.Tensor[*cpu.CPUBackend]
	err := ctx.Region(CastRegion, func() error {
		half = t.To(tensor.Float16)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintf(w, "Tensor in half precision:\n%s\n", half.Pretty()); err != nil {
		return nil, err
	}
	return &DemoResult{Original: t, Half: half}, nil
}
