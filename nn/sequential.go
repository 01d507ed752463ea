package nn

import (
	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/params"
)

// Sequential applies layers in order over a running NamedTensorMap: each
// layer reads its declared inputs from the map and its outputs are written
// back under their names, shadowing earlier values.
type Sequential struct {
	layers []Layer
}

func NewSequential(layers ...Layer) *Sequential {
	copyLayers := make([]Layer, len(layers))
	copy(copyLayers, layers)
	return &Sequential{layers: copyLayers}
}

// Inputs are the names read by some layer before any earlier layer produces them.
func (s *Sequential) Inputs() []string {
	produced := map[string]bool{}
	seen := map[string]bool{}
	var names []string
	for _, l := range s.layers {
		for _, name := range l.Inputs() {
			if !produced[name] && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		for _, name := range l.Outputs() {
			produced[name] = true
		}
	}
	return names
}

// Outputs are the names produced by any layer, in first production order.
func (s *Sequential) Outputs() []string {
	seen := map[string]bool{}
	var names []string
	for _, l := range s.layers {
		for _, name := range l.Outputs() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func (s *Sequential) Apply(inputs NamedTensorMap) (NamedTensorMap, error) {
	running := make(NamedTensorMap, len(inputs))
	for name, t := range inputs {
		running[name] = t
	}
	out := NamedTensorMap{}
	for idx, l := range s.layers {
		in, err := Select(running, l.Inputs())
		if err != nil {
			return nil, errors.WithMessagef(err, "layer %d", idx)
		}
		produced, err := l.Apply(in)
		if err != nil {
			return nil, errors.WithMessagef(err, "layer %d", idx)
		}
		for name, t := range produced {
			running[name] = t
			out[name] = t
		}
	}
	return out, nil
}

// Parameters lists each distinct parameter once, even when a layer appears
// several times.
func (s *Sequential) Parameters() []*params.Parameter {
	seen := map[*params.Parameter]bool{}
	var ps []*params.Parameter
	for _, l := range s.layers {
		for _, p := range l.Parameters() {
			if p != nil && !seen[p] {
				seen[p] = true
				ps = append(ps, p)
			}
		}
	}
	return ps
}

func (s *Sequential) ZeroGrad() {
	for _, l := range s.layers {
		l.ZeroGrad()
	}
}
