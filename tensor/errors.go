package tensor

import "github.com/pkg/errors"

var (
	// ErrTypeMismatch is returned when the operands of an op have different dtypes.
	ErrTypeMismatch = errors.New("dtype mismatch")
	// ErrShapeMismatch is returned when shapes cannot be matched or broadcast.
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrInvalidShape  = errors.New("invalid shape")
)

func ensureSameDType(op string, a, b *Tensor) error {
	if a.dtype != b.dtype {
		return errors.Wrapf(ErrTypeMismatch, "%s: %s and %s", op, a.dtype, b.dtype)
	}
	return nil
}

func ensureSameShape(a, b *Tensor) error {
	if !sameShape(a.shape, b.shape) {
		return errors.Wrapf(ErrShapeMismatch, "%v vs %v", a.shape, b.shape)
	}
	return nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, dim := range a {
		if dim != b[i] {
			return false
		}
	}
	return true
}
