package nn

import (
	"math/rand"

	"github.com/glance-ml/glance/internal/tensor"
)

// EncoderBlock is one post-norm transformer layer:
//
//	x = LayerNorm(x + Dropout(SelfAttention(x)))
//	x = LayerNorm(x + Dropout(FeedForward(x)))
//
// Normalization comes after each residual add. This ordering is part of
// the model contract; pre-norm would change the numerics and is not an
// option here. The block preserves its input shape exactly.
type EncoderBlock struct {
	Attention *MultiHeadSelfAttention
	AttnNorm  *LayerNorm
	AttnDrop  *Dropout
	FFN       *FeedForward
	FFNNorm   *LayerNorm
	FFNDrop   *Dropout
}

// NewEncoderBlock creates one encoder layer. Returns a ConfigError when
// embedDim is not divisible by numHeads.
func NewEncoderBlock(embedDim, numHeads, mlpDim int, dropout, normEps float32, rng *rand.Rand, b tensor.Backend) (*EncoderBlock, error) {
	attn, err := NewMultiHeadSelfAttention(embedDim, numHeads, rng, b)
	if err != nil {
		return nil, err
	}
	return &EncoderBlock{
		Attention: attn,
		AttnNorm:  NewLayerNorm(embedDim, normEps, b),
		AttnDrop:  NewDropout(dropout, rng),
		FFN:       NewFeedForward(embedDim, mlpDim, dropout, rng, b),
		FFNNorm:   NewLayerNorm(embedDim, normEps, b),
		FFNDrop:   NewDropout(dropout, rng),
	}, nil
}

// Forward applies the two residual sub-layers to x [batch, seq, embedDim].
func (e *EncoderBlock) Forward(x *tensor.Tensor, mode Mode) *tensor.Tensor {
	attnOut := e.AttnDrop.Forward(e.Attention.Forward(x), mode)
	x = e.AttnNorm.Forward(x.Add(attnOut))

	ffnOut := e.FFNDrop.Forward(e.FFN.Forward(x, mode), mode)
	x = e.FFNNorm.Forward(x.Add(ffnOut))
	return x
}
