package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/glance-ml/glance/internal/tensor"
)

// ScaledDotProductAttention computes
//
//	Attention(Q, K, V) = softmax(Q K^T / sqrt(headDim)) V
//
// over 4D inputs [batch, heads, seq, headDim]. The softmax subtracts
// each row's maximum before exponentiating, so attention weight rows
// always sum to 1 without overflow. There is no masking: every token
// attends to every other token (bidirectional encoder).
//
// Returns the attended values [batch, heads, seq, headDim] and the
// attention weights [batch, heads, seq, seq].
func ScaledDotProductAttention(query, key, value *tensor.Tensor) (*tensor.Tensor, *tensor.Tensor) {
	for _, t := range []*tensor.Tensor{query, key, value} {
		if len(t.Shape()) != 4 {
			panic(fmt.Sprintf("ScaledDotProductAttention: inputs must be 4D [batch, heads, seq, headDim], got %v", t.Shape()))
		}
	}
	if query.Shape()[3] != key.Shape()[3] {
		panic("ScaledDotProductAttention: query and key must have the same headDim")
	}
	if key.Shape()[2] != value.Shape()[2] {
		panic("ScaledDotProductAttention: key and value must have the same sequence length")
	}

	headDim := query.Shape()[3]
	scale := float32(1.0 / math.Sqrt(float64(headDim)))

	// [b, h, seq, d] @ [b, h, d, seq] -> [b, h, seq, seq]
	scores := query.BatchMatMul(key.Transpose(0, 1, 3, 2)).MulScalar(scale)
	weights := scores.Softmax(-1)
	return weights.BatchMatMul(value), weights
}

// MultiHeadSelfAttention projects a token sequence through three
// independent Query, Key and Value maps, runs scaled dot-product
// attention per head, concatenates the heads and applies a final output
// projection. Input and output shape: [batch, seq, embedDim].
type MultiHeadSelfAttention struct {
	WQ       *Linear // query projection [embedDim, embedDim]
	WK       *Linear // key projection
	WV       *Linear // value projection
	WO       *Linear // output projection after head concat
	EmbedDim int
	NumHeads int
	HeadDim  int
}

// NewMultiHeadSelfAttention creates the attention layer. Returns a
// ConfigError when embedDim is not divisible by numHeads.
func NewMultiHeadSelfAttention(embedDim, numHeads int, rng *rand.Rand, b tensor.Backend) (*MultiHeadSelfAttention, error) {
	if numHeads <= 0 {
		return nil, NewConfigError("attention: num_heads must be positive, got %d", numHeads)
	}
	if embedDim%numHeads != 0 {
		return nil, NewConfigError("attention: embed_dim (%d) must be divisible by num_heads (%d)", embedDim, numHeads)
	}
	return &MultiHeadSelfAttention{
		WQ:       NewLinear(embedDim, embedDim, rng, b),
		WK:       NewLinear(embedDim, embedDim, rng, b),
		WV:       NewLinear(embedDim, embedDim, rng, b),
		WO:       NewLinear(embedDim, embedDim, rng, b),
		EmbedDim: embedDim,
		NumHeads: numHeads,
		HeadDim:  embedDim / numHeads,
	}, nil
}

// Forward computes self-attention over x [batch, seq, embedDim].
func (m *MultiHeadSelfAttention) Forward(x *tensor.Tensor) *tensor.Tensor {
	out, _ := m.ForwardWithWeights(x)
	return out
}

// ForwardWithWeights additionally returns the attention weights
// [batch, heads, seq, seq] for inspection.
func (m *MultiHeadSelfAttention) ForwardWithWeights(x *tensor.Tensor) (*tensor.Tensor, *tensor.Tensor) {
	shape := x.Shape()
	if len(shape) != 3 || shape[2] != m.EmbedDim {
		panic(fmt.Sprintf("MultiHeadSelfAttention.Forward: expected [batch, seq, %d], got %v", m.EmbedDim, shape))
	}
	batch, seq := shape[0], shape[1]

	// Project and split into heads: [b, seq, e] -> [b, heads, seq, headDim].
	q := m.split(m.WQ.Forward(x), batch, seq)
	k := m.split(m.WK.Forward(x), batch, seq)
	v := m.split(m.WV.Forward(x), batch, seq)

	attended, weights := ScaledDotProductAttention(q, k, v)

	// Merge heads back and project: [b, heads, seq, headDim] -> [b, seq, e].
	merged := attended.Transpose(0, 2, 1, 3).Reshape(batch, seq, m.EmbedDim)
	return m.WO.Forward(merged), weights
}

func (m *MultiHeadSelfAttention) split(x *tensor.Tensor, batch, seq int) *tensor.Tensor {
	return x.Reshape(batch, seq, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)
}
