package params

import (
	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

// Parameter is a named tensor owned by a Store and updated in place by
// optimizers. Its identity is stable for the lifetime of the Store.
type Parameter struct {
	name  string
	scope string
	value *tensor.Tensor
}

func (p *Parameter) Name() string { return p.name }

func (p *Parameter) Scope() string { return p.scope }

// Path is the scope and name joined by ScopeSeparator, e.g. "/model/alpha".
func (p *Parameter) Path() string { return joinScope(p.scope, p.name) }

func (p *Parameter) String() string { return p.Path() }

// Tensor returns the live tensor backing the parameter. Ops built on it
// propagate gradients into the parameter.
func (p *Parameter) Tensor() *tensor.Tensor { return p.value }

func (p *Parameter) DType() tensor.DType { return p.value.DType() }

func (p *Parameter) Shape() []int { return p.value.Shape() }

func (p *Parameter) Trainable() bool { return p.value.RequiresGrad() }

func (p *Parameter) SetTrainable(trainable bool) {
	p.value.SetRequiresGrad(trainable)
	if !trainable {
		p.value.ZeroGrad()
	}
}

// Value returns the value of a single-element parameter.
func (p *Parameter) Value() (float64, error) {
	v, err := p.value.Item()
	return v, errors.WithMessagef(err, "parameter %s", p.Path())
}

func (p *Parameter) Values() []float64 { return p.value.Data() }

// Set overwrites the parameter in place. Layers holding the parameter see the
// new value on their next application.
func (p *Parameter) Set(values ...float64) error {
	return errors.WithMessagef(p.value.SetData(values), "parameter %s", p.Path())
}

func (p *Parameter) Grad() *tensor.Tensor { return p.value.Grad() }

func (p *Parameter) ZeroGrad() { p.value.ZeroGrad() }
