package tensor

import (
	"math"

	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/internal/parallel"
)

// Add, Sub, Mul and Div broadcast their operands to a common shape. Both
// operands must share a dtype, otherwise ErrTypeMismatch is returned.

func Add(a, b *Tensor) (*Tensor, error) {
	a, b, err := broadcastOperands("Add", a, b)
	if err != nil {
		return nil, err
	}
	out := elementwise(a, b, func(x, y float64) float64 { return x + y })
	attachBinaryGrad(out, a, b, func(grad *Tensor, grads map[*Tensor]*Tensor, left, right *Tensor) {
		if left.requiresGrad {
			accumulate(grads, left, grad)
		}
		if right.requiresGrad {
			accumulate(grads, right, grad)
		}
	})
	return out, nil
}

func Sub(a, b *Tensor) (*Tensor, error) {
	a, b, err := broadcastOperands("Sub", a, b)
	if err != nil {
		return nil, err
	}
	out := elementwise(a, b, func(x, y float64) float64 { return x - y })
	attachBinaryGrad(out, a, b, func(grad *Tensor, grads map[*Tensor]*Tensor, left, right *Tensor) {
		if left.requiresGrad {
			accumulate(grads, left, grad)
		}
		if right.requiresGrad {
			accumulate(grads, right, negate(grad))
		}
	})
	return out, nil
}

func Mul(a, b *Tensor) (*Tensor, error) {
	a, b, err := broadcastOperands("Mul", a, b)
	if err != nil {
		return nil, err
	}
	out := elementwise(a, b, func(x, y float64) float64 { return x * y })
	attachBinaryGrad(out, a, b, func(grad *Tensor, grads map[*Tensor]*Tensor, left, right *Tensor) {
		if left.requiresGrad {
			accumulate(grads, left, hadamard(grad, right.Detach()))
		}
		if right.requiresGrad {
			accumulate(grads, right, hadamard(grad, left.Detach()))
		}
	})
	return out, nil
}

func Div(a, b *Tensor) (*Tensor, error) {
	a, b, err := broadcastOperands("Div", a, b)
	if err != nil {
		return nil, err
	}
	out := elementwise(a, b, func(x, y float64) float64 { return x / y })
	attachBinaryGrad(out, a, b, func(grad *Tensor, grads map[*Tensor]*Tensor, left, right *Tensor) {
		if left.requiresGrad {
			accumulate(grads, left, hadamard(grad, reciprocal(right.Detach())))
		}
		if right.requiresGrad {
			numerator := hadamard(grad, left.Detach())
			dt := numerator.dtype
			parallel.For(len(numerator.data), func(start, end int) {
				for i := start; i < end; i++ {
					numerator.data[i] = dt.Round(-numerator.data[i] / (right.data[i] * right.data[i]))
				}
			})
			accumulate(grads, right, numerator)
		}
	})
	return out, nil
}

func Pow(a *Tensor, value float64) *Tensor {
	out := unary(a, func(x float64) float64 { return math.Pow(x, value) })
	track(out, func(grad *Tensor, grads map[*Tensor]*Tensor) {
		base := unary(a, func(x float64) float64 { return value * math.Pow(x, value-1) })
		accumulate(grads, a, hadamard(grad, base))
	}, a)
	return out
}

// Sum reduces every element of a into a scalar.
func Sum(a *Tensor) *Tensor {
	val := 0.0
	for _, v := range a.data {
		val += v
	}
	out := Scalar(a.dtype, val)
	track(out, func(grad *Tensor, grads map[*Tensor]*Tensor) {
		accumulate(grads, a, Full(a.dtype, grad.data[0], a.shape...))
	}, a)
	return out
}

// Mean is Sum divided by the number of elements.
func Mean(a *Tensor) *Tensor {
	scale := 1.0 / float64(a.Numel())
	val := 0.0
	for _, v := range a.data {
		val += v
	}
	out := Scalar(a.dtype, val*scale)
	track(out, func(grad *Tensor, grads map[*Tensor]*Tensor) {
		accumulate(grads, a, Full(a.dtype, grad.data[0]*scale, a.shape...))
	}, a)
	return out
}

func broadcastOperands(op string, a, b *Tensor) (*Tensor, *Tensor, error) {
	if a == nil || b == nil {
		return nil, nil, errors.Errorf("%s requires non-nil tensors", op)
	}
	if err := ensureSameDType(op, a, b); err != nil {
		return nil, nil, err
	}
	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, nil, errors.WithMessage(err, op)
	}
	if a, err = Expand(a, shape); err != nil {
		return nil, nil, errors.WithMessage(err, op)
	}
	if b, err = Expand(b, shape); err != nil {
		return nil, nil, errors.WithMessage(err, op)
	}
	return a, b, nil
}

func elementwise(a, b *Tensor, fn func(x, y float64) float64) *Tensor {
	out := Zeros(a.dtype, a.shape...)
	dt := a.dtype
	parallel.For(len(out.data), func(start, end int) {
		for i := start; i < end; i++ {
			out.data[i] = dt.Round(fn(a.data[i], b.data[i]))
		}
	})
	return out
}

func unary(a *Tensor, fn func(x float64) float64) *Tensor {
	out := Zeros(a.dtype, a.shape...)
	dt := a.dtype
	parallel.For(len(out.data), func(start, end int) {
		for i := start; i < end; i++ {
			out.data[i] = dt.Round(fn(a.data[i]))
		}
	})
	return out
}

func hadamard(a, b *Tensor) *Tensor {
	if err := ensureSameShape(a, b); err != nil {
		panic(err)
	}
	return elementwise(a, b, func(x, y float64) float64 { return x * y })
}

func reciprocal(a *Tensor) *Tensor {
	return unary(a, func(x float64) float64 { return 1.0 / x })
}

func negate(a *Tensor) *Tensor {
	return unary(a, func(x float64) float64 { return -x })
}

func attachBinaryGrad(out, a, b *Tensor, backward func(grad *Tensor, grads map[*Tensor]*Tensor, left, right *Tensor)) {
	track(out, func(grad *Tensor, grads map[*Tensor]*Tensor) {
		backward(grad, grads, a, b)
	}, a, b)
}
