package nn

import (
	"github.com/glance-ml/glance/internal/tensor"
)

// LayerNorm normalizes each token vector independently across the last
// (embedding) dimension:
//
//	y = gamma * (x - mean(x)) / sqrt(var(x) + eps) + beta
//
// Gamma starts at ones and beta at zeros. Epsilon guards the division
// for degenerate constant inputs.
type LayerNorm struct {
	Gamma   *Parameter // learnable scale [dim]
	Beta    *Parameter // learnable shift [dim]
	Epsilon float32
	dim     int
}

// NewLayerNorm creates a LayerNorm over the last dimension of size dim.
func NewLayerNorm(dim int, epsilon float32, b tensor.Backend) *LayerNorm {
	return &LayerNorm{
		Gamma:   NewParameter("gamma", tensor.Ones(tensor.Shape{dim}, b)),
		Beta:    NewParameter("beta", tensor.Zeros(tensor.Shape{dim}, b)),
		Epsilon: epsilon,
		dim:     dim,
	}
}

// Forward normalizes x along its last dimension. Input may have any
// rank >= 1 as long as the last dimension equals dim.
func (l *LayerNorm) Forward(x *tensor.Tensor) *tensor.Tensor {
	mean := x.MeanDim(-1, true)
	centered := x.Sub(mean)
	variance := centered.Mul(centered).MeanDim(-1, true)
	inv := variance.AddScalar(l.Epsilon).Rsqrt()
	normed := centered.Mul(inv)

	gamma := l.Gamma.Tensor()
	beta := l.Beta.Tensor()
	for i := 0; i < len(x.Shape())-1; i++ {
		gamma = gamma.Unsqueeze(0)
		beta = beta.Unsqueeze(0)
	}
	return normed.Mul(gamma).Add(beta)
}
