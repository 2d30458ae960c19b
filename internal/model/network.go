package model

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// keyPrefix names the container every layer lives in.
const keyPrefix = "model"

// Network evaluates its layers in order.
type Network struct {
	layers []Layer
}

// NewNetwork returns a Network over layers.
func NewNetwork(layers ...Layer) *Network {
	return &Network{layers: layers}
}

// Push appends a layer.
func (n *Network) Push(l Layer) {
	n.layers = append(n.layers, l)
}

// Layers returns the layers in evaluation order.
func (n *Network) Layers() []Layer {
	return n.layers
}

type resetter interface {
	Reset(rng *rand.Rand, init Initializer)
}

// Reset re-initialises every layer that has parameters.
func (n *Network) Reset(rng *rand.Rand, init Initializer) {
	for _, l := range n.layers {
		if r, ok := l.(resetter); ok {
			r.Reset(rng, init)
		}
	}
}

// Forward evaluates the network on x. x is not modified.
func (n *Network) Forward(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, errors.New("forward: empty input")
	}
	v := mat.NewVecDense(len(x), append([]float64(nil), x...))
	for i, l := range n.layers {
		var err error
		v, err = l.Forward(v)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out, nil
}

// StateDict returns views over every parameter, keyed model.<layer>.<name>.
// Writing into the returned tensors changes the network.
func (n *Network) StateDict() StateDict {
	var sd StateDict
	for i, l := range n.layers {
		for _, p := range l.Params() {
			sd.entries = append(sd.entries, NamedTensor{
				Name:   fmt.Sprintf("%s.%d.%s", keyPrefix, i, p.Name),
				Tensor: p.Tensor,
			})
		}
	}
	return sd
}

// LoadStateDict copies values from src into the network. Keys and shapes
// must match exactly.
func (n *Network) LoadStateDict(src StateDict) error {
	dst := n.StateDict()
	if src.Len() != dst.Len() {
		return errors.Errorf("load state: got %d tensors, want %d", src.Len(), dst.Len())
	}
	for _, e := range dst.entries {
		t, ok := src.Get(e.Name)
		if !ok {
			return errors.Errorf("load state: missing %s", e.Name)
		}
		if !t.SameShape(e.Tensor) || len(t.Data) != len(e.Data) {
			return errors.Errorf("load state: %s has shape %v, want %v", e.Name, t.Shape, e.Shape)
		}
		copy(e.Data, t.Data)
	}
	return nil
}

// StateDict is an ordered mapping from parameter name to tensor.
type StateDict struct {
	entries []NamedTensor
}

// NewStateDict builds a StateDict from entries, keeping their order.
func NewStateDict(entries ...NamedTensor) StateDict {
	return StateDict{entries: entries}
}

// Len returns the number of tensors.
func (s StateDict) Len() int { return len(s.entries) }

// Entries returns the tensors in order.
func (s StateDict) Entries() []NamedTensor { return s.entries }

// Keys returns the names in order.
func (s StateDict) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Name
	}
	return keys
}

// Get looks up a tensor by name.
func (s StateDict) Get(name string) (Tensor, bool) {
	for _, e := range s.entries {
		if e.Name == name {
			return e.Tensor, true
		}
	}
	return Tensor{}, false
}

// Clone deep-copies every tensor.
func (s StateDict) Clone() StateDict {
	out := StateDict{entries: make([]NamedTensor, len(s.entries))}
	for i, e := range s.entries {
		out.entries[i] = NamedTensor{Name: e.Name, Tensor: e.Tensor.Clone()}
	}
	return out
}

func (s StateDict) String() string {
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = fmt.Sprintf("('%s', %s)", e.Name, e.Tensor)
	}
	return "OrderedDict([" + strings.Join(parts, ", ") + "])"
}
