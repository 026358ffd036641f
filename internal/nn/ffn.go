package nn

import (
	"math/rand"

	"github.com/glance-ml/glance/internal/tensor"
)

// FeedForward is the transformer MLP sub-layer:
//
//	FFN(x) = Linear2(Dropout(GELU(Linear1(x))))
//
// expanding embedDim to mlpDim and projecting back. Input and output
// shape: [batch, seq, embedDim].
type FeedForward struct {
	Linear1 *Linear // [embedDim -> mlpDim]
	Linear2 *Linear // [mlpDim -> embedDim]
	Act     *GELU
	Drop    *Dropout
}

// NewFeedForward creates the MLP sub-layer.
func NewFeedForward(embedDim, mlpDim int, dropout float32, rng *rand.Rand, b tensor.Backend) *FeedForward {
	return &FeedForward{
		Linear1: NewLinear(embedDim, mlpDim, rng, b),
		Linear2: NewLinear(mlpDim, embedDim, rng, b),
		Act:     NewGELU(),
		Drop:    NewDropout(dropout, rng),
	}
}

// Forward applies expand, activate, dropout, project.
func (f *FeedForward) Forward(x *tensor.Tensor, mode Mode) *tensor.Tensor {
	h := f.Act.Forward(f.Linear1.Forward(x))
	h = f.Drop.Forward(h, mode)
	return f.Linear2.Forward(h)
}
