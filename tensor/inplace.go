package tensor

import "github.com/fumitoshi0524/ixeoriNet/multiply/internal/parallel"

// Scale and AddScaled mutate t in place and bypass the gradient graph. They
// are meant for optimizers and initializers updating parameters.

func (t *Tensor) Scale(v float64) {
	dt := t.dtype
	parallel.For(len(t.data), func(start, end int) {
		for i := start; i < end; i++ {
			t.data[i] = dt.Round(t.data[i] * v)
		}
	})
}

func (t *Tensor) AddScaled(other *Tensor, alpha float64) error {
	if err := ensureSameShape(t, other); err != nil {
		return err
	}
	dt := t.dtype
	parallel.For(len(t.data), func(start, end int) {
		for i := start; i < end; i++ {
			t.data[i] = dt.Round(t.data[i] + alpha*other.data[i])
		}
	})
	return nil
}
