// Package optim updates parameters in place from their accumulated gradients.
package optim

import (
	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

type SGD struct {
	params        []*tensor.Tensor
	lr            float64
	momentum      float64
	weightDecay   float64
	velocity      map[*tensor.Tensor]*tensor.Tensor
	maxGradNorm   float64
	gradNormType  float64
	gradValueClip float64
	constraints   []Constraint
}

type SGDConfig struct {
	LR            float64
	Momentum      float64
	WeightDecay   float64
	MaxGradNorm   float64
	GradNormType  float64
	GradValueClip float64
	Constraints   []Constraint
}

func NewSGD(params []*tensor.Tensor, lr float64, momentum float64) *SGD {
	return NewSGDWithConfig(params, SGDConfig{LR: lr, Momentum: momentum})
}

func NewSGDWithConfig(params []*tensor.Tensor, cfg SGDConfig) *SGD {
	return &SGD{
		params:        append([]*tensor.Tensor(nil), params...),
		lr:            cfg.LR,
		momentum:      cfg.Momentum,
		weightDecay:   cfg.WeightDecay,
		velocity:      make(map[*tensor.Tensor]*tensor.Tensor),
		maxGradNorm:   cfg.MaxGradNorm,
		gradNormType:  cfg.GradNormType,
		gradValueClip: cfg.GradValueClip,
		constraints:   append([]Constraint(nil), cfg.Constraints...),
	}
}

// Step applies one update to every parameter holding a gradient. Parameters
// without a gradient are left untouched.
func (o *SGD) Step() error {
	if o.maxGradNorm > 0 {
		ClipGradNorm(o.params, o.maxGradNorm, o.gradNormType)
	}
	if o.gradValueClip > 0 {
		ClipGradValue(o.params, o.gradValueClip)
	}
	for _, p := range o.params {
		if p == nil {
			continue
		}
		grad := p.Grad()
		if grad == nil {
			continue
		}
		update := grad
		if o.weightDecay > 0 {
			if err := update.AddScaled(p.Detach(), o.weightDecay); err != nil {
				return errors.WithMessage(err, "SGD weight decay")
			}
		}
		if o.momentum > 0 {
			v := o.velocity[p]
			if v == nil {
				v = tensor.Zeros(grad.DType(), grad.Shape()...)
			}
			v.Scale(o.momentum)
			if err := v.AddScaled(update, 1.0); err != nil {
				return errors.WithMessage(err, "SGD momentum")
			}
			o.velocity[p] = v
			update = v.Clone()
		}
		if err := p.AddScaled(update, -o.lr); err != nil {
			return errors.WithMessage(err, "SGD update")
		}
		for _, c := range o.constraints {
			if err := c.Apply(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *SGD) LR() float64 { return o.lr }

func (o *SGD) SetLR(lr float64) { o.lr = lr }

func (o *SGD) ZeroGrad() {
	for _, p := range o.params {
		if p != nil {
			p.ZeroGrad()
		}
	}
}
