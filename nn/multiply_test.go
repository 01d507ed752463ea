package nn

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fumitoshi0524/ixeoriNet/multiply/loss"
	"github.com/fumitoshi0524/ixeoriNet/multiply/optim"
	"github.com/fumitoshi0524/ixeoriNet/multiply/params"
	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

func newMultiply(t *testing.T, alpha float64) *Multiply {
	t.Helper()
	m, err := NewMultiplyIn(params.NewStore().Root(), params.Constant(alpha))
	require.NoError(t, err)
	return m
}

func applyMultiply(t *testing.T, m *Multiply, x *tensor.Tensor) *tensor.Tensor {
	t.Helper()
	out, err := m.Apply(NamedTensorMap{MultiplyInput: x})
	require.NoError(t, err)
	y, ok := out[MultiplyOutput]
	require.True(t, ok, "missing %q in %v", MultiplyOutput, out)
	return y
}

func TestMultiplyScenarios(t *testing.T) {
	cases := []struct {
		name  string
		alpha float64
		x     *tensor.Tensor
		want  []float64
	}{
		{"double", 2, tensor.MustNew([]float64{1, 2, 3}, 3), []float64{2, 4, 6}},
		{"zero", 0, tensor.MustNew([]float64{5, -3}, 2), []float64{0, 0}},
		{"negate matrix", -1, tensor.MustNew([]float64{1, 2, 3, 4}, 2, 2), []float64{-1, -2, -3, -4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			y := applyMultiply(t, newMultiply(t, tc.alpha), tc.x)
			assert.Equal(t, tc.x.Shape(), y.Shape())
			assert.Equal(t, tensor.Float32, y.DType())
			assert.InDeltaSlice(t, tc.want, y.Data(), 1e-6)
		})
	}
}

func TestMultiplyDeclaresNames(t *testing.T) {
	m := newMultiply(t, 1)
	assert.Equal(t, []string{"x"}, m.Inputs())
	assert.Equal(t, []string{"y_pred"}, m.Outputs())
	require.Len(t, m.Parameters(), 1)
	assert.Equal(t, "/alpha", m.Alpha().Path())
}

func TestMultiplyPreservesShapeAcrossCalls(t *testing.T) {
	m := newMultiply(t, 3)
	for _, shape := range [][]int{{}, {4}, {2, 3}, {2, 1, 2}} {
		size := 1
		for _, d := range shape {
			size *= d
		}
		data := make([]float64, size)
		for i := range data {
			data[i] = float64(i) - 1
		}
		x := tensor.MustNew(data, shape...)
		y, err := m.Forward(x)
		require.NoError(t, err)
		assert.Equal(t, x.Shape(), y.Shape())
		for i, v := range y.Data() {
			assert.InDelta(t, 3*data[i], v, 1e-6)
		}
	}
}

func TestMultiplySharesAlphaAcrossCalls(t *testing.T) {
	m := newMultiply(t, 2)
	x1 := tensor.MustNew([]float64{1, 2}, 2)
	x2 := tensor.MustNew([]float64{-1, 4, 5}, 3)
	assert.InDeltaSlice(t, []float64{2, 4}, applyMultiply(t, m, x1).Data(), 1e-6)

	require.NoError(t, m.Alpha().Set(0.5))
	assert.InDeltaSlice(t, []float64{0.5, 1}, applyMultiply(t, m, x1).Data(), 1e-6)
	assert.InDeltaSlice(t, []float64{-0.5, 2, 2.5}, applyMultiply(t, m, x2).Data(), 1e-6)
}

func TestMultiplyInSameScopeReusesAlpha(t *testing.T) {
	store := params.NewStore()
	scope, err := store.Root().In("model")
	require.NoError(t, err)
	first, err := NewMultiplyIn(scope, params.Constant(2))
	require.NoError(t, err)
	second, err := NewMultiplyIn(scope, params.Constant(7))
	require.NoError(t, err)

	assert.Same(t, first.Alpha(), second.Alpha())
	assert.Len(t, store.Parameters(), 1)
	v, err := second.Alpha().Value()
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = scope.Create(AlphaName, tensor.Float32, nil, nil)
	assert.True(t, errors.Is(err, params.ErrDuplicateParameter), "got %v", err)
}

func TestMultiplyRejectsIncompatibleDType(t *testing.T) {
	m := newMultiply(t, 2)
	for _, dtype := range []tensor.DType{tensor.Float16, tensor.Float64} {
		x := tensor.MustNewOf(dtype, []float64{1, 2}, 2)
		_, err := m.Apply(NamedTensorMap{MultiplyInput: x})
		assert.Truef(t, errors.Is(err, tensor.ErrTypeMismatch), "%s: got %v", dtype, err)
	}
}

func TestMultiplyRejectsMissingInput(t *testing.T) {
	m := newMultiply(t, 2)
	_, err := m.Apply(NamedTensorMap{"y": tensor.MustNew([]float64{1}, 1)})
	assert.True(t, errors.Is(err, ErrMissingInput), "got %v", err)
}

func TestNewMultiplyRequiresScalarAlpha(t *testing.T) {
	_, err := NewMultiply(nil)
	assert.Error(t, err)

	vec, err := params.NewStore().Root().Create("alpha", tensor.Float32, []int{2}, nil)
	require.NoError(t, err)
	_, err = NewMultiply(vec)
	assert.True(t, errors.Is(err, tensor.ErrInvalidShape), "got %v", err)
}

func TestMultiplyGradients(t *testing.T) {
	m := newMultiply(t, -1.5)
	x := tensor.MustNew([]float64{1, 2, 3, 4}, 2, 2)
	x.SetRequiresGrad(true)
	y := applyMultiply(t, m, x)
	require.NoError(t, tensor.Sum(y).Backward())

	grad := m.Alpha().Grad()
	require.NotNil(t, grad)
	assert.InDeltaSlice(t, []float64{10}, grad.Data(), 1e-6)
	assert.InDeltaSlice(t, []float64{-1.5, -1.5, -1.5, -1.5}, x.Grad().Data(), 1e-6)

	ZeroGradAll(nil, m)
	assert.Nil(t, m.Alpha().Grad())
}

func TestMultiplyAlphaFollowsOptimizer(t *testing.T) {
	store := params.NewStore()
	m, err := NewMultiplyIn(store.Root(), params.Zeros())
	require.NoError(t, err)
	x := tensor.MustNew([]float64{1, -1, 2}, 3)
	target := tensor.MustNew([]float64{2, -2, 4}, 3)
	opt := optim.NewSGD(store.Trainable(), 0.1, 0)

	opt.ZeroGrad()
	y := applyMultiply(t, m, x)
	l, err := loss.MSE(y, target)
	require.NoError(t, err)
	require.NoError(t, l.Backward())
	require.NoError(t, opt.Step())

	// dL/dalpha = mean(2*(alpha*x - t)*x) = -2*mean(2*x^2) = -8 at alpha=0.
	v, err := m.Alpha().Value()
	require.NoError(t, err)
	assert.InDelta(t, 0.8, v, 1e-6)
	assert.InDeltaSlice(t, []float64{0.8, -0.8, 1.6}, applyMultiply(t, m, x).Data(), 1e-6)
}
