package tensor

import (
	"math/rand"
	"sync"
	"time"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))
var rngLock sync.Mutex

// Seed resets the package random source, for reproducible initialization.
func Seed(seed int64) {
	rngLock.Lock()
	rng = rand.New(rand.NewSource(seed))
	rngLock.Unlock()
}

// Randn samples the standard normal distribution.
func Randn(dtype DType, shape ...int) *Tensor {
	return sample(dtype, shape, func(r *rand.Rand) float64 { return r.NormFloat64() })
}

// RandUniform samples uniformly from [lo, hi).
func RandUniform(dtype DType, lo, hi float64, shape ...int) *Tensor {
	return sample(dtype, shape, func(r *rand.Rand) float64 { return lo + (hi-lo)*r.Float64() })
}

func sample(dtype DType, shape []int, draw func(*rand.Rand) float64) *Tensor {
	t := Zeros(dtype, shape...)
	rngLock.Lock()
	for i := range t.data {
		t.data[i] = dtype.Round(draw(rng))
	}
	rngLock.Unlock()
	return t
}
