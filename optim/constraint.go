package optim

import (
	"math"

	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

// Constraint projects a parameter back into its feasible set after an update.
type Constraint interface {
	Apply(param *tensor.Tensor) error
}

type MaxNormConstraint struct {
	maxNorm float64
	norm    float64
}

func NewMaxNormConstraint(maxNorm, norm float64) *MaxNormConstraint {
	if norm <= 0 {
		norm = 2
	}
	return &MaxNormConstraint{maxNorm: maxNorm, norm: norm}
}

func (c *MaxNormConstraint) Apply(param *tensor.Tensor) error {
	if param == nil || c.maxNorm <= 0 {
		return nil
	}
	sum := 0.0
	for _, v := range param.Data() {
		sum += math.Pow(math.Abs(v), c.norm)
	}
	norm := math.Pow(sum, 1.0/c.norm)
	if norm <= c.maxNorm {
		return nil
	}
	param.Scale(c.maxNorm / (norm + 1e-12))
	return nil
}

// ClampConstraint keeps every element within [lo, hi].
type ClampConstraint struct {
	lo, hi float64
}

func NewClampConstraint(lo, hi float64) *ClampConstraint {
	return &ClampConstraint{lo: lo, hi: hi}
}

func (c *ClampConstraint) Apply(param *tensor.Tensor) error {
	if param == nil {
		return nil
	}
	values := param.Data()
	for i, v := range values {
		values[i] = math.Min(math.Max(v, c.lo), c.hi)
	}
	return param.SetData(values)
}
