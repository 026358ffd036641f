package nn

import (
	"math/rand"

	"github.com/glance-ml/glance/internal/tensor"
)

// PositionalEncoding adds a learned per-position bias to a token
// sequence. The bias is a single Parameter of shape [1, seqLen,
// embedDim] broadcast over the batch; it is sized at construction and
// a sequence of any other length is rejected, not resized.
type PositionalEncoding struct {
	Bias     *Parameter // [1, seqLen, embedDim]
	SeqLen   int
	EmbedDim int
}

// NewPositionalEncoding creates the learned positional bias, initialized
// from N(0, 0.02²) as is conventional for learned position tables.
func NewPositionalEncoding(seqLen, embedDim int, rng *rand.Rand, b tensor.Backend) *PositionalEncoding {
	bias := Normal(tensor.Shape{1, seqLen, embedDim}, 0.02, rng, b)
	return &PositionalEncoding{
		Bias:     NewParameter("pos_embed", bias),
		SeqLen:   seqLen,
		EmbedDim: embedDim,
	}
}

// Forward adds the positional bias to x [batch, seqLen, embedDim].
// A shape mismatch is a configuration error, never recoverable here.
func (p *PositionalEncoding) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	shape := x.Shape()
	if len(shape) != 3 || shape[1] != p.SeqLen || shape[2] != p.EmbedDim {
		return nil, NewConfigError("positional encoding: expected [batch, %d, %d], got %v", p.SeqLen, p.EmbedDim, shape)
	}
	return x.Add(p.Bias.Tensor()), nil
}
