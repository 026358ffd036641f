package cpu

import (
	"fmt"

	"github.com/glance-ml/glance/internal/tensor"
)

// SumDim sums tensor elements along the specified dimension.
// Negative dim counts from the end (-1 = last). With keepDim the
// reduced dimension stays with size 1, otherwise it is removed.
func (c *Backend) SumDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	shape := x.Shape()
	ndim := len(shape)
	d := dim
	if d < 0 {
		d += ndim
	}
	if d < 0 || d >= ndim {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for rank-%d tensor", dim, ndim))
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[d] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		for i := 0; i < ndim; i++ {
			if i != d {
				outShape = append(outShape, shape[i])
			}
		}
		if len(outShape) == 0 {
			outShape = tensor.Shape{1}
		}
	}

	out := tensor.Zeros(outShape, c)
	src, dst := x.Data(), out.Data()

	outer, inner := 1, 1
	for i := 0; i < d; i++ {
		outer *= shape[i]
	}
	for i := d + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	dimSize := shape[d]

	for o := 0; o < outer; o++ {
		srcBase := o * dimSize * inner
		dstBase := o * inner
		for k := 0; k < dimSize; k++ {
			row := src[srcBase+k*inner : srcBase+(k+1)*inner]
			for j, v := range row {
				dst[dstBase+j] += v
			}
		}
	}
	return out
}

// MeanDim computes the mean along the specified dimension.
func (c *Backend) MeanDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	out := c.SumDim(x, dim, keepDim)

	shape := x.Shape()
	d := dim
	if d < 0 {
		d += len(shape)
	}
	inv := 1.0 / float32(shape[d])

	data := out.Data()
	for i := range data {
		data[i] *= inv
	}
	return out
}
