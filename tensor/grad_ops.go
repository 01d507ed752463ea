package tensor

import (
	"math"

	"github.com/fumitoshi0524/ixeoriNet/multiply/internal/parallel"
)

// GradPowSum returns sum(|g|^norm) over the gradient, or max(|g|) when norm
// is +Inf. It is zero for tensors without a gradient.
func (t *Tensor) GradPowSum(norm float64) float64 {
	if t == nil || t.grad == nil {
		return 0
	}
	acc := 0.0
	for _, v := range t.grad.data {
		if math.IsInf(norm, 1) {
			acc = math.Max(acc, math.Abs(v))
			continue
		}
		acc += math.Pow(math.Abs(v), norm)
	}
	return acc
}

func (t *Tensor) ScaleGrad(factor float64) {
	if t == nil || t.grad == nil {
		return
	}
	t.grad.Scale(factor)
}

// ClipGradValue clamps every gradient element to [-limit, limit], with the
// bounds rounded to the gradient's dtype.
func (t *Tensor) ClipGradValue(limit float64) {
	if t == nil || t.grad == nil || limit <= 0 {
		return
	}
	grad := t.grad
	hi, lo := grad.dtype.Round(limit), grad.dtype.Round(-limit)
	parallel.For(len(grad.data), func(start, end int) {
		for i := start; i < end; i++ {
			grad.data[i] = math.Min(math.Max(grad.data[i], lo), hi)
		}
	})
}
