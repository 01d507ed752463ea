package tensor

import (
	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/internal/parallel"
)

// BroadcastShapes returns the shape both a and b broadcast to, aligning
// trailing dimensions. A dimension of 1 stretches to match the other side.
func BroadcastShapes(a, b []int) ([]int, error) {
	rank := len(a)
	if len(b) > rank {
		rank = len(b)
	}
	out := make([]int, rank)
	for i := 1; i <= rank; i++ {
		da, db := 1, 1
		if i <= len(a) {
			da = a[len(a)-i]
		}
		if i <= len(b) {
			db = b[len(b)-i]
		}
		switch {
		case da == db, db == 1:
			out[rank-i] = da
		case da == 1:
			out[rank-i] = db
		default:
			return nil, errors.Wrapf(ErrShapeMismatch, "cannot broadcast %v with %v", a, b)
		}
	}
	return out, nil
}

// Expand materializes t broadcast to shape. Gradients flowing back are summed
// over the broadcast dimensions.
func Expand(t *Tensor, shape []int) (*Tensor, error) {
	if sameShape(t.shape, shape) {
		return t, nil
	}
	if _, err := numel(shape); err != nil {
		return nil, err
	}
	rank := len(shape)
	off := rank - len(t.shape)
	if off < 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "cannot expand %v to lower rank %v", t.shape, shape)
	}
	srcStrides := make([]int, rank)
	stride := 1
	for i := rank - 1; i >= 0; i-- {
		srcDim := 1
		if i >= off {
			srcDim = t.shape[i-off]
		}
		switch {
		case srcDim == shape[i]:
			srcStrides[i] = stride
			stride *= srcDim
		case srcDim == 1:
			srcStrides[i] = 0
		default:
			return nil, errors.Wrapf(ErrShapeMismatch, "cannot expand %v to %v", t.shape, shape)
		}
	}
	out := Zeros(t.dtype, shape...)
	outStrides := makeStrides(shape)
	parallel.For(len(out.data), func(start, end int) {
		for i := start; i < end; i++ {
			rem, src := i, 0
			for d := 0; d < rank; d++ {
				src += (rem / outStrides[d]) * srcStrides[d]
				rem %= outStrides[d]
			}
			out.data[i] = t.data[src]
		}
	})
	srcShape := t.Shape()
	track(out, func(grad *Tensor, grads map[*Tensor]*Tensor) {
		reduced, err := ReduceToShape(grad, srcShape)
		if err != nil {
			panic(err)
		}
		accumulate(grads, t, reduced)
	}, t)
	return out, nil
}

// ReduceToShape sums grad over the dimensions that were broadcast from
// targetShape. It is the adjoint of Expand.
func ReduceToShape(grad *Tensor, targetShape []int) (*Tensor, error) {
	if len(targetShape) > len(grad.shape) {
		return nil, errors.Wrapf(ErrShapeMismatch, "target rank of %v greater than %v", targetShape, grad.shape)
	}
	out := grad
	diff := len(grad.shape) - len(targetShape)
	for axis := 0; axis < len(out.shape); axis++ {
		tgtDim := 1
		if axis >= diff {
			tgtDim = targetShape[axis-diff]
		}
		if out.shape[axis] == tgtDim {
			continue
		}
		if tgtDim != 1 {
			return nil, errors.Wrapf(ErrShapeMismatch, "cannot reduce %v to %v", grad.shape, targetShape)
		}
		out = reduceAxis(out, axis)
	}
	if !sameShape(out.shape, targetShape) {
		return reshapeKeep(out, targetShape), nil
	}
	return out, nil
}

func reduceAxis(t *Tensor, axis int) *Tensor {
	if axis < 0 || axis >= len(t.shape) {
		panic("axis out of range")
	}
	shape := append([]int(nil), t.shape...)
	axisSize := shape[axis]
	shape[axis] = 1
	out := Zeros(t.dtype, shape...)
	outer := 1
	for i := 0; i < axis; i++ {
		outer *= t.shape[i]
	}
	inner := 1
	for i := axis + 1; i < len(t.shape); i++ {
		inner *= t.shape[i]
	}
	dt := t.dtype
	parallel.For(outer, func(start, end int) {
		for o := start; o < end; o++ {
			dstBase := o * inner
			srcBase := o * axisSize * inner
			for k := 0; k < axisSize; k++ {
				srcOffset := srcBase + k*inner
				for j := 0; j < inner; j++ {
					out.data[dstBase+j] += t.data[srcOffset+j]
				}
			}
			for j := 0; j < inner; j++ {
				out.data[dstBase+j] = dt.Round(out.data[dstBase+j])
			}
		}
	})
	return out
}

func reshapeKeep(t *Tensor, shape []int) *Tensor {
	total, err := numel(shape)
	if err != nil {
		panic(err)
	}
	if total != len(t.data) {
		panic("reshapeKeep size mismatch")
	}
	return newTensor(t.dtype, t.data, shape)
}
