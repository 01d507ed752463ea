package loss

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

func TestMSEForwardBackward(t *testing.T) {
	pred := tensor.MustNew([]float64{1, 3}, 2, 1)
	pred.SetRequiresGrad(true)
	target := tensor.MustNew([]float64{2, 1}, 2, 1)

	l, err := MSE(pred, target)
	require.NoError(t, err)
	v, err := l.Item()
	require.NoError(t, err)
	assert.InDelta(t, 2.5, v, 1e-6)

	require.NoError(t, l.Backward())
	require.NotNil(t, pred.Grad())
	assert.InDeltaSlice(t, []float64{-1, 2}, pred.Grad().Data(), 1e-6)
}

func TestMSERejectsDTypeMismatch(t *testing.T) {
	pred := tensor.MustNew([]float64{1}, 1)
	target := tensor.MustNewOf(tensor.Float64, []float64{1}, 1)
	_, err := MSE(pred, target)
	assert.True(t, errors.Is(err, tensor.ErrTypeMismatch), "got %v", err)
}
