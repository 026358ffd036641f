package nn

import (
	"fmt"
	"math/rand"

	"github.com/glance-ml/glance/internal/tensor"
)

// Linear is a fully connected layer: y = x @ W.T + b, with
// W [outFeatures, inFeatures] and b [outFeatures].
//
// Weights are Xavier-initialized, biases start at zero. Forward accepts
// 2D input [batch, in] or 3D input [batch, seq, in]; 3D input is folded
// to [batch*seq, in] for the multiply and unfolded afterwards.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter
	bias        *Parameter
}

// NewLinear creates a Linear layer with Xavier-initialized weights.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand, b tensor.Backend) *Linear {
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, rng, b)
	bias := tensor.Zeros(tensor.Shape{outFeatures}, b)
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}
}

// Forward applies the affine map to a 2D or 3D input.
func (l *Linear) Forward(x *tensor.Tensor) *tensor.Tensor {
	shape := x.Shape()
	is3D := len(shape) == 3
	if !is3D && len(shape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D or 3D input, got shape %v", shape))
	}
	if shape[len(shape)-1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected %d input features, got %d", l.inFeatures, shape[len(shape)-1]))
	}

	if is3D {
		x = x.Reshape(shape[0]*shape[1], l.inFeatures)
	}

	out := x.MatMul(l.weight.Tensor().T())
	out = out.Add(l.bias.Tensor().Reshape(1, l.outFeatures))

	if is3D {
		out = out.Reshape(shape[0], shape[1], l.outFeatures)
	}
	return out
}

// Weight returns the weight parameter [outFeatures, inFeatures].
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter [outFeatures].
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the input feature count.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output feature count.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
