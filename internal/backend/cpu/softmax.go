package cpu

import (
	"fmt"
	"math"

	"github.com/glance-ml/glance/internal/parallel"
	"github.com/glance-ml/glance/internal/tensor"
)

// Softmax normalizes along dim: softmax(x_i) = exp(x_i) / sum_j exp(x_j).
// The per-row maximum is subtracted before exponentiating so that large
// attention scores cannot overflow float32. Rows are independent and run
// in parallel.
func (c *Backend) Softmax(x *tensor.Tensor, dim int) *tensor.Tensor {
	shape := x.Shape()
	ndim := len(shape)
	d := dim
	if d < 0 {
		d += ndim
	}
	if d < 0 || d >= ndim {
		panic(fmt.Sprintf("softmax: dimension %d out of range for rank-%d tensor", dim, ndim))
	}

	out := tensor.Zeros(shape, c)
	src, dst := x.Data(), out.Data()
	strides := shape.ComputeStrides()
	dimSize := shape[d]
	dimStride := strides[d]

	numRows := 1
	for i := range shape {
		if i != d {
			numRows *= shape[i]
		}
	}

	softmaxRows(dst, src, shape, strides, d, numRows, dimSize, dimStride, c)
	return out
}

func softmaxRows(dst, src []float32, shape tensor.Shape, strides []int, dim, numRows, dimSize, dimStride int, c *Backend) {
	rowBase := func(row int) int {
		base := 0
		rem := row
		for i := len(shape) - 1; i >= 0; i-- {
			if i == dim {
				continue
			}
			base += (rem % shape[i]) * strides[i]
			rem /= shape[i]
		}
		return base
	}

	run := func(row int) {
		base := rowBase(row)

		maxVal := float32(math.Inf(-1))
		for i := 0; i < dimSize; i++ {
			if v := src[base+i*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		var sum float32
		for i := 0; i < dimSize; i++ {
			idx := base + i*dimStride
			e := float32(math.Exp(float64(src[idx] - maxVal)))
			dst[idx] = e
			sum += e
		}

		inv := 1.0 / sum
		for i := 0; i < dimSize; i++ {
			dst[base+i*dimStride] *= inv
		}
	}

	parallel.For(numRows, c.par, run)
}
