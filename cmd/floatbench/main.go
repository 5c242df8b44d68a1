// Package main provides the floatbench CLI.
//
// Run without arguments it seeds the generator with 0, prints a 3x3 random
// tensor, casts it to half precision inside the "to_float16" marker region and
// prints the result. The forward subcommand times the network's forward pass
// at every precision.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/born-ml/floatbench/internal/bench"
	"github.com/born-ml/floatbench/internal/marker"
	"github.com/born-ml/floatbench/internal/tensor"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("floatbench: ")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "floatbench",
		Short: "Float precision benchmark harness",
		Long: "floatbench casts a seeded random tensor from float32 to half precision\n" +
			"inside a performance-counter region and prints both tensors.",
		// Arguments are ignored: the demo always runs and exits 0.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runDemo(cmd.OutOrStdout())
			return nil
		},
	}
	root.AddCommand(newForwardCmd(), newVersionCmd())
	return root
}

// openMarker initializes the marker context, falling back to timing-only
// regions when hardware counters cannot be opened.
func openMarker() *marker.Context {
	ctx, err := marker.Init()
	if errors.Is(err, marker.ErrUnavailable) {
		log.Printf("%v; continuing without hardware counters", err)
		ctx, err = marker.Init(marker.WithoutCounters())
	}
	if err != nil {
		log.Fatalf("marker init: %v", err)
	}
	return ctx
}

// runDemo has no failure exit: problems are logged and the process exits 0.
func runDemo(out io.Writer) {
	ctx := openMarker()
	defer func() {
		if err := ctx.Close(); err != nil {
			log.Printf("marker close: %v", err)
		}
	}()

	if _, err := bench.CastDemo(out, ctx); err != nil {
		log.Printf("cast demo: %v", err)
	}
}

func newForwardCmd() *cobra.Command {
	cfg := bench.DefaultConfig()
	var types, loadPath, savePath string

	cmd := &cobra.Command{
		Use:   "forward",
		Short: "Time the network's forward pass at each precision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := bench.ParseNetTypes(types)
			if err != nil {
				return err
			}
			cfg.Types = parsed
			if err := bench.ValidateConfig(&cfg); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			if savePath != "" {
				if err := bench.SaveWeights(savePath, cfg.Seed); err != nil {
					return fmt.Errorf("save weights: %w", err)
				}
				log.Printf("saved seed %d weights to %s", cfg.Seed, savePath)
			}
			if loadPath != "" {
				if cfg.Weights, err = bench.LoadWeights(loadPath); err != nil {
					return fmt.Errorf("load weights: %w", err)
				}
			}
			return runForward(cmd.OutOrStdout(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Batch, "batch", cfg.Batch, "images per forward pass")
	flags.IntVar(&cfg.Size, "size", cfg.Size, "input height and width")
	flags.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "timed forward passes per type")
	flags.IntVar(&cfg.Warmup, "warmup", cfg.Warmup, "untimed forward passes per type")
	flags.StringVar(&types, "types", "float32,double,half,bfloat16", "comma separated network types")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed for weights and inputs")
	flags.BoolVar(&cfg.Normal, "normal", cfg.Normal, "draw inputs from a standard normal instead of uniform [0, 1)")
	flags.StringVar(&savePath, "save-weights", "", "write the seeded float32 weights to a SafeTensors file")
	flags.StringVar(&loadPath, "load-weights", "", "read network weights from a SafeTensors file")
	return cmd
}

func runForward(out io.Writer, cfg bench.Config) error {
	ctx := openMarker()
	defer func() {
		if err := ctx.Close(); err != nil {
			log.Printf("marker close: %v", err)
		}
	}()

	bench.Host().Fprint(out)
	fmt.Fprintf(out, "Hardware counters: %t\n\n", ctx.Enabled())

	// Rounding of the benchmark input for every requested precision.
	tensor.ManualSeed(cfg.Seed)
	input := bench.NewInput(cfg, tensor.Float32)
	for _, nt := range cfg.Types {
		report, err := bench.PrecisionLoss(input, input.To(nt.DataType()))
		if err != nil {
			return err
		}
		report.Fprint(out)
	}

	results, err := bench.RunForward(cfg, ctx)
	if err != nil {
		return err
	}
	bench.PrintTimingStats(out, results)

	if ctx.Enabled() {
		fmt.Fprintln(out, "\n=== MARKER REGIONS ===")
		return ctx.Report(out)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "floatbench %s\n", version)
		},
	}
}
