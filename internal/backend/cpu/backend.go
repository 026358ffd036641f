// Package cpu implements the reference CPU backend for the Glance
// tensor substrate. Hot loops (matrix multiplication, softmax) are
// parallelized across goroutines; everything else is straightforward
// slice arithmetic.
package cpu

import (
	"fmt"

	"github.com/glance-ml/glance/internal/parallel"
	"github.com/glance-ml/glance/internal/tensor"
)

// Backend implements tensor.Backend on the CPU.
type Backend struct {
	par parallel.Config
}

// New creates a CPU backend with default parallelism.
func New() *Backend {
	return &Backend{par: parallel.DefaultConfig()}
}

// NewSequential creates a CPU backend that never spawns goroutines.
func NewSequential() *Backend {
	return &Backend{par: parallel.Sequential()}
}

// Name returns the backend name.
func (c *Backend) Name() string {
	return "CPU"
}

type binaryOp func(a, b float32) float32

// binary applies op element-wise with NumPy-style broadcasting.
func (c *Backend) binary(name string, a, b *tensor.Tensor, op binaryOp) *tensor.Tensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	out := tensor.Zeros(outShape, c)
	dst := out.Data()

	if !needsBroadcast {
		ad, bd := a.Data(), b.Data()
		for i := range dst {
			dst[i] = op(ad[i], bd[i])
		}
		return out
	}

	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()
	ad, bd := a.Data(), b.Data()

	for i := range dst {
		aIdx, bIdx := 0, 0
		rem := i
		for d := 0; d < len(outShape); d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			aIdx += coord * aStrides[d]
			bIdx += coord * bStrides[d]
		}
		dst[i] = op(ad[aIdx], bd[bIdx])
	}
	return out
}

// broadcastStrides returns strides for src aligned to the broadcast
// output shape, with 0 for broadcast (size-1 or missing) dimensions.
func broadcastStrides(src, out tensor.Shape) []int {
	srcStrides := src.ComputeStrides()
	strides := make([]int, len(out))
	offset := len(out) - len(src)
	for d := range out {
		if d < offset {
			continue // missing leading dimension broadcasts
		}
		if src[d-offset] == 1 && out[d] != 1 {
			continue // size-1 dimension broadcasts
		}
		strides[d] = srcStrides[d-offset]
	}
	return strides
}

// Add performs element-wise addition with broadcasting.
func (c *Backend) Add(a, b *tensor.Tensor) *tensor.Tensor {
	return c.binary("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (c *Backend) Sub(a, b *tensor.Tensor) *tensor.Tensor {
	return c.binary("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (c *Backend) Mul(a, b *tensor.Tensor) *tensor.Tensor {
	return c.binary("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (c *Backend) Div(a, b *tensor.Tensor) *tensor.Tensor {
	return c.binary("div", a, b, func(x, y float32) float32 { return x / y })
}

// AddScalar adds s to every element.
func (c *Backend) AddScalar(x *tensor.Tensor, s float32) *tensor.Tensor {
	out := tensor.Zeros(x.Shape(), c)
	src, dst := x.Data(), out.Data()
	for i := range dst {
		dst[i] = src[i] + s
	}
	return out
}

// MulScalar multiplies every element by s.
func (c *Backend) MulScalar(x *tensor.Tensor, s float32) *tensor.Tensor {
	out := tensor.Zeros(x.Shape(), c)
	src, dst := x.Data(), out.Data()
	for i := range dst {
		dst[i] = src[i] * s
	}
	return out
}
