package bench

import (
	"fmt"
	"strings"

	"github.com/born-ml/floatbench/internal/network"
	"github.com/born-ml/floatbench/internal/tensor"
)

// Config holds forward benchmark configuration.
type Config struct {
	Batch      int
	Size       int
	Iterations int
	Warmup     int
	Types      []network.NetType
	Seed       uint64

	// Normal draws inputs from a standard normal instead of uniform [0, 1).
	Normal bool

	// Weights, when set, replaces the seeded parameters of every network.
	// Keys are qualified parameter names such as "conv1.weight".
	Weights map[string]*tensor.RawTensor
}

// DefaultConfig returns a single-image 32x32 run over every network type.
func DefaultConfig() Config {
	return Config{
		Batch:      1,
		Size:       network.InputSize,
		Iterations: 10,
		Warmup:     2,
		Types:      append([]network.NetType(nil), network.AllTypes...),
		Seed:       0,
	}
}

// ParseNetTypes parses a comma separated list of network types.
// Duplicates are dropped, the first occurrence keeps its position.
func ParseNetTypes(s string) ([]network.NetType, error) {
	var types []network.NetType
	seen := make(map[network.NetType]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		nt, err := network.ParseNetType(part)
		if err != nil {
			return nil, err
		}
		if !seen[nt] {
			seen[nt] = true
			types = append(types, nt)
		}
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("no network types in %q", s)
	}
	return types, nil
}

// ValidateConfig validates forward benchmark configuration.
//
// Size is only checked for being poolable three times; a size that does not
// reduce to the width fc1 expects is left to fail in the forward pass.
func ValidateConfig(config *Config) error {
	if config.Batch <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	if config.Size < 8 {
		return fmt.Errorf("input size must be at least 8, got %d", config.Size)
	}

	if config.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive")
	}

	if config.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative")
	}

	if len(config.Types) == 0 {
		return fmt.Errorf("at least one network type is required")
	}
	for _, nt := range config.Types {
		if !nt.Valid() {
			return fmt.Errorf("invalid network type %v", nt)
		}
	}

	return nil
}
