package tensor

import (
	"strconv"
	"strings"
)

// String renders the values nested by shape, e.g. [[1 2] [3 4]].
func (t *Tensor) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	formatDim(&sb, t.data, t.shape, t.dtype)
	return sb.String()
}

func formatDim(sb *strings.Builder, data []float64, shape []int, dtype DType) {
	if len(shape) == 0 {
		sb.WriteString(formatValue(data[0], dtype))
		return
	}
	step := len(data) / shape[0]
	sb.WriteByte('[')
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		formatDim(sb, data[i*step:(i+1)*step], shape[1:], dtype)
	}
	sb.WriteByte(']')
}

// formatValue prints the shortest decimal that rounds back to v in dtype.
func formatValue(v float64, dtype DType) string {
	switch dtype {
	case Float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case Float16:
		// strconv has no 16-bit mode; float16 needs at most 5 significant digits.
		for prec := 1; prec < 5; prec++ {
			s := strconv.FormatFloat(v, 'g', prec, 64)
			if parsed, err := strconv.ParseFloat(s, 64); err == nil && Float16.Round(parsed) == v {
				return strconv.FormatFloat(parsed, 'g', -1, 64)
			}
		}
		return strconv.FormatFloat(v, 'g', 5, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 32)
}
