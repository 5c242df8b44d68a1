package bench

import (
	"fmt"
	"io"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TimingStats summarises the timed iterations of one benchmark.
type TimingStats struct {
	Iterations int
	Total      time.Duration
	Mean       time.Duration
	StdDev     time.Duration
	Min        time.Duration
	Max        time.Duration
}

// NewTimingStats computes statistics over per-iteration durations.
func NewTimingStats(durations []time.Duration) TimingStats {
	if len(durations) == 0 {
		return TimingStats{}
	}

	us := make([]float64, len(durations))
	var total time.Duration
	for i, d := range durations {
		us[i] = DurationUS(d)
		total += d
	}

	mean, std := stat.MeanStdDev(us, nil)
	if len(us) == 1 {
		std = 0
	}
	return TimingStats{
		Iterations: len(durations),
		Total:      total,
		Mean:       fromUS(mean),
		StdDev:     fromUS(std),
		Min:        fromUS(floats.Min(us)),
		Max:        fromUS(floats.Max(us)),
	}
}

// PrintTimingStats prints one block per forward result.
func PrintTimingStats(w io.Writer, results []ForwardResult) {
	fmt.Fprintln(w, "\n=== TIMING STATISTICS ===")
	for _, r := range results {
		s := r.Timing
		fmt.Fprintf(w, "\n%s (input %v):\n", r.Type, r.InputShape)
		fmt.Fprintf(w, "  Iterations: %d\n", s.Iterations)
		fmt.Fprintf(w, "  Total time: %v\n", s.Total)
		fmt.Fprintf(w, "  Mean forward pass: %.1f us (std %.1f us)\n", DurationUS(s.Mean), DurationUS(s.StdDev))
		fmt.Fprintf(w, "  Min / max: %.1f us / %.1f us\n", DurationUS(s.Min), DurationUS(s.Max))
		fmt.Fprintf(w, "  Max |sum(exp(row)) - 1|: %.3g\n", r.RowSumError)
		for _, e := range r.Metrics.Events {
			fmt.Fprintf(w, "  %s: %d\n", e.Name, e.Count)
		}
	}
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}

func fromUS(us float64) time.Duration {
	return time.Duration(us * 1_000.0)
}
