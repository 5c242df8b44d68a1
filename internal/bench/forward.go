package bench

import (
	"fmt"
	"math"
	"time"

	"github.com/born-ml/floatbench/internal/backend/cpu"
	"github.com/born-ml/floatbench/internal/marker"
	"github.com/born-ml/floatbench/internal/network"
	"github.com/born-ml/floatbench/internal/tensor"
)

// ForwardResult is the outcome of benchmarking one network type.
type ForwardResult struct {
	Type        network.NetType
	InputShape  tensor.Shape
	OutputShape tensor.Shape
	Timing      TimingStats
	Metrics     marker.Metrics

	// RowSumError is the largest deviation of sum(exp(row)) from 1 over
	// the last output.
	RowSumError float64
}

// ForwardRegion returns the marker region name used for a network type.
func ForwardRegion(nt network.NetType) string {
	return "forward_" + nt.String()
}

// rowSumTolerance bounds RowSumError for each precision.
func rowSumTolerance(nt network.NetType) float64 {
	switch nt {
	case network.Double:
		return 1e-12
	case network.Half:
		return 1e-2
	case network.BFloat16:
		return 5e-2
	default:
		return 1e-5
	}
}

// RunForward benchmarks the forward pass once per configured network type.
//
// Every type starts from the configured seed, so all networks share the same
// float32 initialization and input before casting. Warmup passes run outside
// the marker region; each timed pass is one start/stop of ForwardRegion.
// Engine failures such as a shape mismatch for an unsupported input size
// panic.
func RunForward(config Config, ctx *marker.Context) ([]ForwardResult, error) {
	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}
	if err := ctx.ThreadInit(); err != nil {
		return nil, fmt.Errorf("marker thread init: %w", err)
	}

	backend := cpu.New()
	results := make([]ForwardResult, 0, len(config.Types))

	for _, nt := range config.Types {
		tensor.ManualSeed(config.Seed)
		net := network.New(nt, backend)
		if config.Weights != nil {
			if err := net.LoadStateDict(config.Weights); err != nil {
				return nil, fmt.Errorf("%s: %w", nt, err)
			}
		}
		inputShape := tensor.Shape{config.Batch, network.InChannels, config.Size, config.Size}
		x := NewInput(config, nt.DataType())

		region := ForwardRegion(nt)
		if err := ctx.Register(region); err != nil {
			return nil, err
		}

		var out *tensor.Tensor[*cpu.CPUBackend]
		for i := 0; i < config.Warmup; i++ {
			out = net.Forward(x)
		}

		durations := make([]time.Duration, 0, config.Iterations)
		for i := 0; i < config.Iterations; i++ {
			start := time.Now()
			err := ctx.Region(region, func() error {
				out = net.Forward(x)
				return nil
			})
			durations = append(durations, time.Since(start))
			if err != nil {
				return nil, err
			}
		}

		metrics, err := ctx.Get(region)
		if err != nil {
			return nil, err
		}

		rowErr := RowSumError(out)
		if !(rowErr <= rowSumTolerance(nt)) {
			return nil, fmt.Errorf("%s: log-softmax rows sum to 1±%g, tolerance %g", nt, rowErr, rowSumTolerance(nt))
		}

		results = append(results, ForwardResult{
			Type:        nt,
			InputShape:  inputShape,
			OutputShape: out.Shape(),
			Timing:      NewTimingStats(durations),
			Metrics:     metrics,
			RowSumError: rowErr,
		})
	}
	return results, nil
}

// NewInput draws a benchmark input of shape (Batch, 3, Size, Size) in dtype
// from the default generator.
func NewInput(config Config, dtype tensor.DataType) *tensor.Tensor[*cpu.CPUBackend] {
	shape := tensor.Shape{config.Batch, network.InChannels, config.Size, config.Size}
	if config.Normal {
		return tensor.Randn(shape, dtype, cpu.New())
	}
	return tensor.Rand(shape, dtype, cpu.New())
}

// RowSumError returns max over rows of |sum(exp(out[i, :])) - 1| for a 2D
// tensor of log-probabilities.
func RowSumError[B tensor.Backend](out *tensor.Tensor[B]) float64 {
	shape := out.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("bench: expected 2D log-probabilities, got shape %v", shape))
	}
	values := out.Float64s()
	rows, cols := shape[0], shape[1]

	worst := 0.0
	for i := 0; i < rows; i++ {
		sum := 0.0
		for _, v := range values[i*cols : (i+1)*cols] {
			sum += math.Exp(v)
		}
		if d := math.Abs(sum - 1); d > worst || math.IsNaN(d) {
			worst = d
		}
	}
	return worst
}
