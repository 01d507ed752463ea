package optim

import (
	"math"

	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

// ClipGradNorm rescales gradients so their combined normType-norm is at most
// maxNorm, and returns the norm before clipping. normType may be math.Inf(1)
// for the max-abs norm; non-positive values select the L2 norm.
func ClipGradNorm(params []*tensor.Tensor, maxNorm float64, normType float64) float64 {
	if maxNorm <= 0 {
		return 0
	}
	if normType <= 0 {
		normType = 2
	}
	norm := gradNorm(params, normType)
	if norm <= maxNorm || norm == 0 {
		return norm
	}
	scale := maxNorm / norm
	for _, p := range params {
		p.ScaleGrad(scale)
	}
	return norm
}

func gradNorm(params []*tensor.Tensor, normType float64) float64 {
	if math.IsInf(normType, 1) {
		norm := 0.0
		for _, p := range params {
			norm = math.Max(norm, p.GradPowSum(normType))
		}
		return norm
	}
	total := 0.0
	for _, p := range params {
		total += p.GradPowSum(normType)
	}
	return math.Pow(total, 1.0/normType)
}

// ClipGradValue clamps every gradient element into [-clipValue, clipValue].
func ClipGradValue(params []*tensor.Tensor, clipValue float64) {
	if clipValue <= 0 {
		return
	}
	for _, p := range params {
		p.ClipGradValue(clipValue)
	}
}
