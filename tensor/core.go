package tensor

import (
	"github.com/pkg/errors"
)

// Tensor is a dense row-major array of floating point values. A Tensor with
// an empty shape is a scalar holding exactly one value.
type Tensor struct {
	data         []float64
	shape        []int
	dtype        DType
	grad         *Tensor
	requiresGrad bool
	node         *node
	parents      []*Tensor
}

type node struct {
	backward func(grad *Tensor, grads map[*Tensor]*Tensor)
}

// New creates a DefaultDType tensor. An empty shape creates a scalar.
func New(data []float64, shape ...int) (*Tensor, error) {
	return NewOf(DefaultDType, data, shape...)
}

// NewOf creates a tensor of the given dtype, rounding data to its precision.
func NewOf(dtype DType, data []float64, shape ...int) (*Tensor, error) {
	if !dtype.valid() {
		return nil, errors.Errorf("invalid dtype %d", int(dtype))
	}
	total, err := numel(shape)
	if err != nil {
		return nil, err
	}
	if total != len(data) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d values for shape %v", len(data), shape)
	}
	t := newTensor(dtype, append([]float64(nil), data...), shape)
	roundAll(dtype, t.data)
	return t, nil
}

func MustNew(data []float64, shape ...int) *Tensor {
	t, err := New(data, shape...)
	if err != nil {
		panic(err)
	}
	return t
}

func MustNewOf(dtype DType, data []float64, shape ...int) *Tensor {
	t, err := NewOf(dtype, data, shape...)
	if err != nil {
		panic(err)
	}
	return t
}

// Scalar returns a rank-0 tensor of the given dtype.
func Scalar(dtype DType, value float64) *Tensor {
	return MustNewOf(dtype, []float64{value})
}

func Zeros(dtype DType, shape ...int) *Tensor {
	size, err := numel(shape)
	if err != nil {
		panic(err)
	}
	return newTensor(dtype, make([]float64, size), shape)
}

func Full(dtype DType, value float64, shape ...int) *Tensor {
	t := Zeros(dtype, shape...)
	v := dtype.Round(value)
	for i := range t.data {
		t.data[i] = v
	}
	return t
}

func newTensor(dtype DType, data []float64, shape []int) *Tensor {
	return &Tensor{
		data:  data,
		shape: append([]int{}, shape...),
		dtype: dtype,
	}
}

func numel(shape []int) (int, error) {
	total := 1
	for _, dim := range shape {
		if dim <= 0 {
			return 0, errors.Wrapf(ErrInvalidShape, "%v", shape)
		}
		total *= dim
	}
	return total, nil
}

func (t *Tensor) Clone() *Tensor {
	if t == nil {
		return nil
	}
	return newTensor(t.dtype, append([]float64(nil), t.data...), t.shape)
}

func (t *Tensor) Shape() []int {
	return append([]int{}, t.shape...)
}

func (t *Tensor) Rank() int {
	return len(t.shape)
}

func (t *Tensor) DType() DType {
	return t.dtype
}

func (t *Tensor) Numel() int {
	return len(t.data)
}

func (t *Tensor) Data() []float64 {
	return append([]float64(nil), t.data...)
}

// Item returns the single value of a one-element tensor.
func (t *Tensor) Item() (float64, error) {
	if len(t.data) != 1 {
		return 0, errors.Wrapf(ErrShapeMismatch, "Item on tensor with shape %v", t.shape)
	}
	return t.data[0], nil
}

// SetData overwrites the tensor's underlying values. The provided slice must match Numel().
func (t *Tensor) SetData(values []float64) error {
	if len(values) != len(t.data) {
		return errors.Wrapf(ErrShapeMismatch, "SetData with %d values on %d elements", len(values), len(t.data))
	}
	copy(t.data, values)
	roundAll(t.dtype, t.data)
	return nil
}

func (t *Tensor) SetRequiresGrad(v bool) {
	t.requiresGrad = v
}

func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

func (t *Tensor) Grad() *Tensor {
	if t.grad == nil {
		return nil
	}
	return t.grad.Clone()
}

func (t *Tensor) ZeroGrad() {
	t.grad = nil
}

func (t *Tensor) Detach() *Tensor {
	return t.Clone()
}

// CopyInto copies the contents of src into dst, ensuring shapes and dtypes match.
func CopyInto(dst, src *Tensor) error {
	if dst == nil || src == nil {
		return errors.New("CopyInto requires non-nil tensors")
	}
	if err := ensureSameDType("CopyInto", dst, src); err != nil {
		return err
	}
	if err := ensureSameShape(dst, src); err != nil {
		return errors.WithMessage(err, "CopyInto")
	}
	copy(dst.data, src.data)
	return nil
}

func makeStrides(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}
