package cpu

import (
	"fmt"

	"github.com/glance-ml/glance/internal/parallel"
	"github.com/glance-ml/glance/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
// Rows of the result are computed in parallel; the accumulation order
// over K within a row is fixed, so results are reproducible run to run.
func (c *Backend) MatMul(a, b *tensor.Tensor) *tensor.Tensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	if bShape[0] != k {
		panic(fmt.Sprintf("matmul: shape mismatch %v @ %v", aShape, bShape))
	}
	n := bShape[1]

	out := tensor.Zeros(tensor.Shape{m, n}, c)
	matmulRows(out.Data(), a.Data(), b.Data(), m, k, n, c.par)
	return out
}

// matmulRows computes c = a @ b with a row-parallel i-k-j loop order.
// The k-major inner loop walks both b and c contiguously, which is the
// difference between this and the naive i-j-k form being memory-bound.
func matmulRows(dst, a, b []float32, m, k, n int, par parallel.Config) {
	parallel.For(m, par, func(i int) {
		row := dst[i*n : (i+1)*n]
		for kk := 0; kk < k; kk++ {
			aik := a[i*k+kk]
			if aik == 0 {
				continue
			}
			bRow := b[kk*n : (kk+1)*n]
			for j, bv := range bRow {
				row[j] += aik * bv
			}
		}
	})
}

// BatchMatMul multiplies matrices batched over the leading dimensions:
// [..., M, K] @ [..., K, N] -> [..., M, N] for rank-3 and rank-4 inputs.
// Batches run in parallel; each per-batch multiply is sequential.
func (c *Backend) BatchMatMul(a, b *tensor.Tensor) *tensor.Tensor {
	aShape, bShape := a.Shape(), b.Shape()
	ndim := len(aShape)
	if ndim < 3 || ndim > 4 {
		panic(fmt.Sprintf("batchmatmul: inputs must be 3D or 4D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("batchmatmul: rank mismatch %dD vs %dD", ndim, len(bShape)))
	}
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("batchmatmul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
	}

	m, k := aShape[ndim-2], aShape[ndim-1]
	if bShape[ndim-2] != k {
		panic(fmt.Sprintf("batchmatmul: inner dimension mismatch: %d vs %d", k, bShape[ndim-2]))
	}
	n := bShape[ndim-1]

	batch := 1
	for i := 0; i < ndim-2; i++ {
		batch *= aShape[i]
	}

	outShape := aShape.Clone()
	outShape[ndim-2] = m
	outShape[ndim-1] = n
	out := tensor.Zeros(outShape, c)

	ad, bd, dst := a.Data(), b.Data(), out.Data()
	seq := parallel.Sequential()
	parallel.For(batch, c.par, func(bi int) {
		aOff := bi * m * k
		bOff := bi * k * n
		cOff := bi * m * n
		matmulRows(dst[cOff:cOff+m*n], ad[aOff:aOff+m*k], bd[bOff:bOff+k*n], m, k, n, seq)
	})
	return out
}
