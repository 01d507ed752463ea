package nn

import (
	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/params"
	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

const (
	MultiplyInput  = "x"
	MultiplyOutput = "y_pred"
	AlphaName      = "alpha"
)

// Multiply scales its input by a learned scalar: y_pred = alpha * x.
type Multiply struct {
	alpha *params.Parameter
}

// NewMultiply uses alpha, which must be a rank-0 parameter.
func NewMultiply(alpha *params.Parameter) (*Multiply, error) {
	if alpha == nil {
		return nil, errors.New("Multiply requires a non-nil alpha")
	}
	if len(alpha.Shape()) != 0 {
		return nil, errors.Wrapf(tensor.ErrInvalidShape, "alpha %s must be a scalar, got shape %v", alpha, alpha.Shape())
	}
	return &Multiply{alpha: alpha}, nil
}

// NewMultiplyIn takes "alpha" from scope, creating a float32 scalar with init
// on first use. Layers built in the same scope share one alpha.
func NewMultiplyIn(scope *params.Scope, init params.Initializer) (*Multiply, error) {
	alpha, err := scope.GetOrCreate(AlphaName, tensor.Float32, nil, init)
	if err != nil {
		return nil, err
	}
	return NewMultiply(alpha)
}

func (m *Multiply) Alpha() *params.Parameter { return m.alpha }

func (m *Multiply) Inputs() []string { return []string{MultiplyInput} }

func (m *Multiply) Outputs() []string { return []string{MultiplyOutput} }

func (m *Multiply) Apply(inputs NamedTensorMap) (NamedTensorMap, error) {
	x, ok := inputs[MultiplyInput]
	if !ok || x == nil {
		return nil, errors.Wrapf(ErrMissingInput, "%q", MultiplyInput)
	}
	y, err := m.Forward(x)
	if err != nil {
		return nil, err
	}
	return NamedTensorMap{MultiplyOutput: y}, nil
}

// Forward computes alpha * x. The result has the shape and dtype of x.
func (m *Multiply) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.DType() != m.alpha.DType() {
		return nil, errors.Wrapf(tensor.ErrTypeMismatch, "input %s with %s alpha", x.DType(), m.alpha.DType())
	}
	return tensor.Mul(m.alpha.Tensor(), x)
}

func (m *Multiply) Parameters() []*params.Parameter { return []*params.Parameter{m.alpha} }

func (m *Multiply) ZeroGrad() { m.alpha.ZeroGrad() }
