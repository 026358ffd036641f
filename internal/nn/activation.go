package nn

import "github.com/glance-ml/glance/internal/tensor"

// GELU is the Gaussian Error Linear Unit activation,
// gelu(x) = 0.5 * x * (1 + erf(x / sqrt(2))), applied element-wise.
// The exact erf form is used rather than the tanh approximation.
type GELU struct{}

// NewGELU creates a GELU activation.
func NewGELU() *GELU {
	return &GELU{}
}

// Forward applies the activation element-wise.
func (g *GELU) Forward(x *tensor.Tensor) *tensor.Tensor {
	return x.Backend().GELU(x)
}
