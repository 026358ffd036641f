package cpu

import (
	"math"

	"github.com/glance-ml/glance/internal/tensor"
)

func (c *Backend) unary(x *tensor.Tensor, f func(float32) float32) *tensor.Tensor {
	out := tensor.Zeros(x.Shape(), c)
	src, dst := x.Data(), out.Data()
	for i := range dst {
		dst[i] = f(src[i])
	}
	return out
}

// Exp applies e^x element-wise.
func (c *Backend) Exp(x *tensor.Tensor) *tensor.Tensor {
	return c.unary(x, func(v float32) float32 {
		return float32(math.Exp(float64(v)))
	})
}

// Sqrt applies the square root element-wise.
func (c *Backend) Sqrt(x *tensor.Tensor) *tensor.Tensor {
	return c.unary(x, func(v float32) float32 {
		return float32(math.Sqrt(float64(v)))
	})
}

// Rsqrt applies the reciprocal square root element-wise.
func (c *Backend) Rsqrt(x *tensor.Tensor) *tensor.Tensor {
	return c.unary(x, func(v float32) float32 {
		return float32(1.0 / math.Sqrt(float64(v)))
	})
}

// GELU applies the exact Gaussian Error Linear Unit:
// gelu(x) = 0.5 * x * (1 + erf(x / sqrt(2))).
func (c *Backend) GELU(x *tensor.Tensor) *tensor.Tensor {
	return c.unary(x, func(v float32) float32 {
		return float32(0.5 * float64(v) * (1.0 + math.Erf(float64(v)/math.Sqrt2)))
	})
}
