package tensor

import (
	"github.com/pkg/errors"

	"github.com/fumitoshi0524/ixeoriNet/multiply/internal/parallel"
)

// ErrNoGrad is returned by Backward on a tensor outside any gradient graph.
var ErrNoGrad = errors.New("tensor does not require grad")

// Backward accumulates d(t)/d(leaf) into the Grad of every tensor in t's
// graph, seeding the output gradient with ones.
func (t *Tensor) Backward() error {
	if t == nil {
		return errors.New("nil tensor")
	}
	if !t.requiresGrad {
		return ErrNoGrad
	}
	order := topo(t)
	grads := map[*Tensor]*Tensor{}
	grads[t] = Full(t.dtype, 1, t.shape...)
	for i := len(order) - 1; i >= 0; i-- {
		current := order[i]
		grad := grads[current]
		if grad == nil {
			continue
		}
		if current.grad == nil {
			current.grad = grad.Clone()
		} else {
			addInPlace(current.grad, grad)
		}
		if current.node != nil {
			current.node.backward(grad, grads)
		}
	}
	return nil
}

func topo(root *Tensor) []*Tensor {
	visited := map[*Tensor]bool{}
	var order []*Tensor
	var visit func(*Tensor)
	visit = func(n *Tensor) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		for _, parent := range n.parents {
			visit(parent)
		}
		order = append(order, n)
	}
	visit(root)
	return order
}

func accumulate(grads map[*Tensor]*Tensor, target *Tensor, value *Tensor) {
	if target == nil || value == nil {
		return
	}
	if existing, ok := grads[target]; ok {
		addInPlace(existing, value)
	} else {
		grads[target] = value.Clone()
	}
}

func addInPlace(dst, src *Tensor) {
	if err := ensureSameShape(dst, src); err != nil {
		panic(err)
	}
	dt := dst.dtype
	parallel.For(len(dst.data), func(start, end int) {
		for i := start; i < end; i++ {
			dst.data[i] = dt.Round(dst.data[i] + src.data[i])
		}
	})
}

// track marks out as produced from parents with the given backward rule,
// when any parent requires grad.
func track(out *Tensor, backward func(grad *Tensor, grads map[*Tensor]*Tensor), parents ...*Tensor) {
	var tracked []*Tensor
	for _, p := range parents {
		if p.requiresGrad {
			tracked = append(tracked, p)
		}
	}
	if len(tracked) == 0 {
		return
	}
	out.requiresGrad = true
	out.parents = tracked
	out.node = &node{backward: backward}
}
