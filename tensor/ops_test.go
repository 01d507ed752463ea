package tensor

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesShape(t *testing.T) {
	_, err := New([]float64{1, 2, 3}, 2, 2)
	require.True(t, errors.Is(err, ErrShapeMismatch), "got %v", err)

	_, err = New([]float64{1}, 0)
	require.True(t, errors.Is(err, ErrInvalidShape), "got %v", err)

	s, err := New([]float64{4})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Rank())
	assert.Equal(t, []int{}, s.Shape())
	v, err := s.Item()
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestMulBroadcastsScalar(t *testing.T) {
	alpha := Scalar(Float32, -1)
	x := MustNew([]float64{1, 2, 3, 4}, 2, 2)
	out, err := Mul(alpha, x)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, out.Shape())
	assert.Equal(t, Float32, out.DType())
	assert.InDeltaSlice(t, []float64{-1, -2, -3, -4}, out.Data(), 1e-9)
	assert.Equal(t, "[[-1 -2] [-3 -4]]", out.String())
}

func TestMulScalarGradients(t *testing.T) {
	alpha := Scalar(Float32, 2)
	alpha.SetRequiresGrad(true)
	x := MustNew([]float64{1, 2, 3}, 3)
	x.SetRequiresGrad(true)

	out, err := Mul(alpha, x)
	require.NoError(t, err)
	require.NoError(t, Sum(out).Backward())

	require.NotNil(t, alpha.Grad())
	assert.Equal(t, 0, alpha.Grad().Rank())
	assert.InDeltaSlice(t, []float64{6}, alpha.Grad().Data(), 1e-6)
	assert.InDeltaSlice(t, []float64{2, 2, 2}, x.Grad().Data(), 1e-6)
}

func TestBinaryOpsRejectDTypeMismatch(t *testing.T) {
	a := MustNewOf(Float32, []float64{1, 2}, 2)
	b := MustNewOf(Float64, []float64{1, 2}, 2)
	for name, op := range map[string]func(a, b *Tensor) (*Tensor, error){
		"Add": Add, "Sub": Sub, "Mul": Mul, "Div": Div,
	} {
		_, err := op(a, b)
		assert.Truef(t, errors.Is(err, ErrTypeMismatch), "%s: got %v", name, err)
	}
}

func TestBinaryOpsRejectIncompatibleShapes(t *testing.T) {
	a := MustNew([]float64{1, 2, 3}, 3)
	b := MustNew([]float64{1, 2}, 2)
	_, err := Add(a, b)
	assert.True(t, errors.Is(err, ErrShapeMismatch), "got %v", err)
}

func TestSubDivGradients(t *testing.T) {
	a := MustNewOf(Float64, []float64{6, 8}, 2)
	a.SetRequiresGrad(true)
	b := MustNewOf(Float64, []float64{2, 4}, 2)
	b.SetRequiresGrad(true)

	q, err := Div(a, b)
	require.NoError(t, err)
	d, err := Sub(q, b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -2}, d.Data(), 1e-12)
	require.NoError(t, Sum(d).Backward())

	assert.InDeltaSlice(t, []float64{0.5, 0.25}, a.Grad().Data(), 1e-12)
	// d/db (a/b - b) = -a/b^2 - 1
	assert.InDeltaSlice(t, []float64{-2.5, -1.5}, b.Grad().Data(), 1e-12)
}

func TestMeanAndPow(t *testing.T) {
	x := MustNewOf(Float64, []float64{1, 2, 3}, 3)
	x.SetRequiresGrad(true)
	m := Mean(Pow(x, 2))
	v, err := m.Item()
	require.NoError(t, err)
	assert.InDelta(t, 14.0/3.0, v, 1e-12)
	require.NoError(t, m.Backward())
	assert.InDeltaSlice(t, []float64{2.0 / 3, 4.0 / 3, 2}, x.Grad().Data(), 1e-12)
}

func TestBackwardWithoutGrad(t *testing.T) {
	x := MustNew([]float64{1}, 1)
	assert.True(t, errors.Is(x.Backward(), ErrNoGrad))
}

func TestCopyIntoChecksDType(t *testing.T) {
	dst := Zeros(Float32, 2)
	err := CopyInto(dst, MustNewOf(Float64, []float64{1, 2}, 2))
	assert.True(t, errors.Is(err, ErrTypeMismatch), "got %v", err)
	require.NoError(t, CopyInto(dst, MustNew([]float64{1, 2}, 2)))
	assert.Equal(t, []float64{1, 2}, dst.Data())
}
