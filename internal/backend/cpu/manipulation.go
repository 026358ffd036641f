package cpu

import (
	"fmt"

	"github.com/glance-ml/glance/internal/tensor"
)

// Transpose permutes the tensor's dimensions. With no axes given, all
// dimensions are reversed (standard 2D transpose). The result is a new
// contiguous tensor; the backend does not keep strided views.
func (c *Backend) Transpose(t *tensor.Tensor, axes ...int) *tensor.Tensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != rank %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	out := tensor.Zeros(newShape, c)
	src, dst := t.Data(), out.Data()
	srcStrides := shape.ComputeStrides()
	outStrides := newShape.ComputeStrides()

	// Walk the output linearly, gathering from the permuted source index.
	for i := range dst {
		srcIdx := 0
		rem := i
		for d := 0; d < ndim; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += coord * srcStrides[axes[d]]
		}
		dst[i] = src[srcIdx]
	}
	return out
}

// Cat concatenates tensors along dim. All other dimensions must match.
func (c *Backend) Cat(tensors []*tensor.Tensor, dim int) *tensor.Tensor {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}
	first := tensors[0].Shape()
	ndim := len(first)
	d := dim
	if d < 0 {
		d += ndim
	}
	if d < 0 || d >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for rank-%d tensor", dim, ndim))
	}

	total := 0
	for _, t := range tensors {
		s := t.Shape()
		if len(s) != ndim {
			panic(fmt.Sprintf("cat: rank mismatch %d vs %d", ndim, len(s)))
		}
		for i := 0; i < ndim; i++ {
			if i != d && s[i] != first[i] {
				panic(fmt.Sprintf("cat: shape mismatch at dim %d: %v vs %v", i, first, s))
			}
		}
		total += s[d]
	}

	outShape := first.Clone()
	outShape[d] = total
	out := tensor.Zeros(outShape, c)
	dst := out.Data()

	// outer = product of dims before d, inner = product after d.
	outer, inner := 1, 1
	for i := 0; i < d; i++ {
		outer *= first[i]
	}
	for i := d + 1; i < ndim; i++ {
		inner *= first[i]
	}

	rowLen := total * inner
	offset := 0
	for _, t := range tensors {
		src := t.Data()
		blockLen := t.Shape()[d] * inner
		for o := 0; o < outer; o++ {
			copy(dst[o*rowLen+offset:o*rowLen+offset+blockLen], src[o*blockLen:(o+1)*blockLen])
		}
		offset += blockLen
	}
	return out
}

// Narrow copies the slice [start, start+length) along dim.
func (c *Backend) Narrow(x *tensor.Tensor, dim, start, length int) *tensor.Tensor {
	shape := x.Shape()
	ndim := len(shape)
	d := dim
	if d < 0 {
		d += ndim
	}
	if d < 0 || d >= ndim {
		panic(fmt.Sprintf("narrow: dimension %d out of range for rank-%d tensor", dim, ndim))
	}
	if start < 0 || length <= 0 || start+length > shape[d] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension of size %d",
			start, start+length, shape[d]))
	}

	outShape := shape.Clone()
	outShape[d] = length
	out := tensor.Zeros(outShape, c)

	outer, inner := 1, 1
	for i := 0; i < d; i++ {
		outer *= shape[i]
	}
	for i := d + 1; i < ndim; i++ {
		inner *= shape[i]
	}

	src, dst := x.Data(), out.Data()
	srcRow := shape[d] * inner
	dstRow := length * inner
	for o := 0; o < outer; o++ {
		copy(dst[o*dstRow:(o+1)*dstRow], src[o*srcRow+start*inner:o*srcRow+(start+length)*inner])
	}
	return out
}
