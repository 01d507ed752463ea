package params

import (
	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

// Initializer returns the initial value of a new parameter.
type Initializer func(dtype tensor.DType, shape []int) *tensor.Tensor

// DefaultInitializer is used by a Store unless another one is configured.
var DefaultInitializer = RandomUniform(-0.1, 0.1)

func Zeros() Initializer {
	return func(dtype tensor.DType, shape []int) *tensor.Tensor {
		return tensor.Zeros(dtype, shape...)
	}
}

func Constant(value float64) Initializer {
	return func(dtype tensor.DType, shape []int) *tensor.Tensor {
		return tensor.Full(dtype, value, shape...)
	}
}

func RandomNormal(mean, stddev float64) Initializer {
	return func(dtype tensor.DType, shape []int) *tensor.Tensor {
		t := tensor.Randn(dtype, shape...)
		t.Scale(stddev)
		if mean != 0 {
			if err := t.AddScaled(tensor.Full(dtype, mean, shape...), 1); err != nil {
				panic(err)
			}
		}
		return t
	}
}

func RandomUniform(lo, hi float64) Initializer {
	return func(dtype tensor.DType, shape []int) *tensor.Tensor {
		return tensor.RandUniform(dtype, lo, hi, shape...)
	}
}
