package bench

import (
	"strconv"

	"github.com/born-ml/floatbench/internal/backend/cpu"
	"github.com/born-ml/floatbench/internal/network"
	"github.com/born-ml/floatbench/internal/serialization"
	"github.com/born-ml/floatbench/internal/tensor"
)

// SaveWeights writes the float32 network initialized from seed to path in
// SafeTensors format.
func SaveWeights(path string, seed uint64) error {
	tensor.ManualSeed(seed)
	net := network.New(network.Float32, cpu.New())
	return serialization.WriteFile(path, net.StateDict(), map[string]string{
		"net_type": net.Type().String(),
		"seed":     strconv.FormatUint(seed, 10),
	})
}

// LoadWeights reads a SafeTensors weights file for Config.Weights.
func LoadWeights(path string) (map[string]*tensor.RawTensor, error) {
	state, _, err := serialization.ReadFile(path)
	return state, err
}
