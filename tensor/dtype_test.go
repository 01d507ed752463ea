package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDTypeRounding(t *testing.T) {
	assert.Equal(t, 0.1, Float64.Round(0.1))
	assert.Equal(t, float64(float32(0.1)), Float32.Round(0.1))
	assert.NotEqual(t, Float32.Round(0.1), Float16.Round(0.1))
	assert.Equal(t, 0.5, Float16.Round(0.5))

	x := MustNewOf(Float16, []float64{1.0001}, 1)
	assert.Equal(t, []float64{1}, x.Data())
}

func TestParseDType(t *testing.T) {
	for name, want := range map[string]DType{
		"float16": Float16, "F32": Float32, "double": Float64,
	} {
		got, err := ParseDType(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want, must(ParseDType(got.String())))
	}
	_, err := ParseDType("int8")
	assert.Error(t, err)
}

func TestDTypeSize(t *testing.T) {
	assert.Equal(t, 2, Float16.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Float64.Size())
}

func must(d DType, err error) DType {
	if err != nil {
		panic(err)
	}
	return d
}
