package tensor

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// DType is the element type of a Tensor. Values are held as float64 and
// rounded to the precision of the DType on every write.
type DType int

const (
	InvalidDType DType = iota
	Float16
	Float32
	Float64
)

// DefaultDType is used by the constructors that do not take a DType.
const DefaultDType = Float32

func (d DType) String() string {
	switch d {
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return "invalid"
}

// Size returns the number of bytes one element occupies in this DType.
func (d DType) Size() int {
	switch d {
	case Float16:
		return 2
	case Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

// Round converts v to the nearest value representable in d.
func (d DType) Round(v float64) float64 {
	switch d {
	case Float16:
		return float64(float16.Fromfloat32(float32(v)).Float32())
	case Float32:
		return float64(float32(v))
	}
	return v
}

func (d DType) valid() bool {
	return d == Float16 || d == Float32 || d == Float64
}

// ParseDType accepts the names returned by DType.String.
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float16", "f16", "half":
		return Float16, nil
	case "float32", "f32", "float":
		return Float32, nil
	case "float64", "f64", "double":
		return Float64, nil
	}
	return InvalidDType, errors.Errorf("unknown dtype %q", s)
}

func roundAll(d DType, values []float64) {
	if d == Float64 {
		return
	}
	for i, v := range values {
		values[i] = d.Round(v)
	}
}
