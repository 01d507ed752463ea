package nn

import (
	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/params"
	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

// LayerFunc wraps a function into a Layer with statically declared input
// and output names.
type LayerFunc struct {
	inputs  []string
	outputs []string
	params  []*params.Parameter
	fn      func(NamedTensorMap) (NamedTensorMap, error)
}

// NewLayerFunc builds a Layer from fn. fn only sees the declared inputs and
// must produce every declared output; extra outputs are dropped.
func NewLayerFunc(inputs, outputs []string, fn func(NamedTensorMap) (NamedTensorMap, error), ps ...*params.Parameter) *LayerFunc {
	return &LayerFunc{
		inputs:  append([]string(nil), inputs...),
		outputs: append([]string(nil), outputs...),
		params:  append([]*params.Parameter(nil), ps...),
		fn:      fn,
	}
}

// NewUnaryFunc adapts a single-tensor function reading input and writing output.
func NewUnaryFunc(input, output string, fn func(*tensor.Tensor) (*tensor.Tensor, error), ps ...*params.Parameter) *LayerFunc {
	return NewLayerFunc([]string{input}, []string{output}, func(m NamedTensorMap) (NamedTensorMap, error) {
		y, err := fn(m[input])
		if err != nil {
			return nil, err
		}
		return NamedTensorMap{output: y}, nil
	}, ps...)
}

func (f *LayerFunc) Inputs() []string { return append([]string(nil), f.inputs...) }

func (f *LayerFunc) Outputs() []string { return append([]string(nil), f.outputs...) }

func (f *LayerFunc) Apply(inputs NamedTensorMap) (NamedTensorMap, error) {
	in, err := Select(inputs, f.inputs)
	if err != nil {
		return nil, err
	}
	produced, err := f.fn(in)
	if err != nil {
		return nil, err
	}
	out := make(NamedTensorMap, len(f.outputs))
	for _, name := range f.outputs {
		t, ok := produced[name]
		if !ok || t == nil {
			return nil, errors.Wrapf(ErrMissingOutput, "%q", name)
		}
		out[name] = t
	}
	return out, nil
}

func (f *LayerFunc) Parameters() []*params.Parameter {
	return append([]*params.Parameter(nil), f.params...)
}

func (f *LayerFunc) ZeroGrad() { zeroGradParams(f.params) }
