// Package nn defines layers that map named input tensors to named output
// tensors. Each layer declares its input and output names up front and
// receives its parameters as explicit handles at construction time.
package nn

import (
	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/params"
	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

// NamedTensorMap carries tensors between layers by name.
type NamedTensorMap map[string]*tensor.Tensor

var (
	ErrMissingInput  = errors.New("missing layer input")
	ErrMissingOutput = errors.New("layer did not produce declared output")
)

type Layer interface {
	// Inputs lists the names Apply reads.
	Inputs() []string
	// Outputs lists the names Apply produces.
	Outputs() []string
	Apply(inputs NamedTensorMap) (NamedTensorMap, error)
	Parameters() []*params.Parameter
	ZeroGrad()
}

func ZeroGradAll(layers ...Layer) {
	for _, l := range layers {
		if l == nil {
			continue
		}
		l.ZeroGrad()
	}
}

// Select returns a map holding only the given names, failing with
// ErrMissingInput on the first name absent from m.
func Select(m NamedTensorMap, names []string) (NamedTensorMap, error) {
	out := make(NamedTensorMap, len(names))
	for _, name := range names {
		t, ok := m[name]
		if !ok || t == nil {
			return nil, errors.Wrapf(ErrMissingInput, "%q", name)
		}
		out[name] = t
	}
	return out, nil
}

func zeroGradParams(ps []*params.Parameter) {
	for _, p := range ps {
		if p != nil {
			p.ZeroGrad()
		}
	}
}
