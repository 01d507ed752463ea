package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringUsesDTypePrecision(t *testing.T) {
	assert.Equal(t, "0.1", Scalar(Float64, 0.1).String())
	assert.Equal(t, "0.1", Scalar(Float32, 0.1).String())
	assert.Equal(t, "0.1", Scalar(Float16, 0.1).String())
	assert.Equal(t, "[1.5 -2]", MustNewOf(Float16, []float64{1.5, -2}, 2).String())
	assert.Equal(t, "1000", Scalar(Float16, 1000).String())
	assert.Equal(t, "65500", Scalar(Float16, 65504).String())
	assert.Equal(t, "<nil>", (*Tensor)(nil).String())
}
