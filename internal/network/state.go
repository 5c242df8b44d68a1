package network

import (
	"fmt"

	"github.com/born-ml/floatbench/internal/tensor"
)

// StateDict returns the raw parameter tensors keyed by qualified name.
// The tensors share storage with the network.
func (n *Net[B]) StateDict() map[string]*tensor.RawTensor {
	named := n.NamedParameters()
	state := make(map[string]*tensor.RawTensor, len(named))
	for _, np := range named {
		state[np.Name] = np.Parameter.Tensor().Raw()
	}
	return state
}

// LoadStateDict replaces every parameter with the matching entry of state.
//
// Names and shapes must match exactly. Entries stored in another precision
// are cast to the network's current type. Nothing is modified on error.
func (n *Net[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	named := n.NamedParameters()
	if len(state) != len(named) {
		return fmt.Errorf("load state: got %d tensors, want %d", len(state), len(named))
	}

	loaded := make([]*tensor.Tensor[B], len(named))
	for i, np := range named {
		raw, ok := state[np.Name]
		if !ok {
			return fmt.Errorf("load state: missing tensor %q", np.Name)
		}
		cur := np.Parameter.Tensor()
		if !raw.Shape().Equal(cur.Shape()) {
			return fmt.Errorf("load state: tensor %q has shape %v, want %v", np.Name, raw.Shape(), cur.Shape())
		}
		loaded[i] = tensor.New(raw.Clone(), cur.Backend()).To(n.netType.DataType())
	}

	for i, np := range named {
		np.Parameter.SetTensor(loaded[i])
	}
	return nil
}
