// Package loss computes scalar training objectives with gradients.
package loss

import (
	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

// MSE is the mean of the squared differences between pred and target.
// target must have pred's dtype and broadcast to its shape.
func MSE(pred, target *tensor.Tensor) (*tensor.Tensor, error) {
	diff, err := tensor.Sub(pred, target)
	if err != nil {
		return nil, errors.WithMessage(err, "MSE")
	}
	return tensor.Mean(tensor.Pow(diff, 2)), nil
}
