// Copyright 2026 The Glance Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn is the public API for the Glance neural network layers.
package nn

import (
	"math/rand"

	"github.com/glance-ml/glance/internal/nn"
	"github.com/glance-ml/glance/internal/tensor"
)

// Mode selects train or inference behavior for stochastic layers.
type Mode = nn.Mode

// Forward-pass modes.
const (
	Train Mode = nn.Train
	Eval  Mode = nn.Eval
)

// ConfigError reports an inconsistent configuration or incompatible
// input shape.
type ConfigError = nn.ConfigError

// Parameter is a named persistent tensor.
type Parameter = nn.Parameter

// Layer types.
type (
	Linear                 = nn.Linear
	LayerNorm              = nn.LayerNorm
	GELU                   = nn.GELU
	Dropout                = nn.Dropout
	FeedForward            = nn.FeedForward
	MultiHeadSelfAttention = nn.MultiHeadSelfAttention
	EncoderBlock           = nn.EncoderBlock
	PatchEmbedding         = nn.PatchEmbedding
	PositionalEncoding     = nn.PositionalEncoding
)

// NewParameter creates a parameter wrapping an initialized tensor.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return nn.NewParameter(name, t)
}

// NewLinear creates a fully connected layer.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand, b tensor.Backend) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, rng, b)
}

// NewLayerNorm creates a LayerNorm over the last dimension.
func NewLayerNorm(dim int, epsilon float32, b tensor.Backend) *LayerNorm {
	return nn.NewLayerNorm(dim, epsilon, b)
}

// NewGELU creates a GELU activation.
func NewGELU() *GELU {
	return nn.NewGELU()
}

// NewDropout creates a dropout layer with drop probability p.
func NewDropout(p float32, rng *rand.Rand) *Dropout {
	return nn.NewDropout(p, rng)
}

// NewFeedForward creates the transformer MLP sub-layer.
func NewFeedForward(embedDim, mlpDim int, dropout float32, rng *rand.Rand, b tensor.Backend) *FeedForward {
	return nn.NewFeedForward(embedDim, mlpDim, dropout, rng, b)
}

// NewMultiHeadSelfAttention creates a self-attention layer.
func NewMultiHeadSelfAttention(embedDim, numHeads int, rng *rand.Rand, b tensor.Backend) (*MultiHeadSelfAttention, error) {
	return nn.NewMultiHeadSelfAttention(embedDim, numHeads, rng, b)
}

// NewEncoderBlock creates one post-norm transformer encoder layer.
func NewEncoderBlock(embedDim, numHeads, mlpDim int, dropout, normEps float32, rng *rand.Rand, b tensor.Backend) (*EncoderBlock, error) {
	return nn.NewEncoderBlock(embedDim, numHeads, mlpDim, dropout, normEps, rng, b)
}

// NewPatchEmbedding creates the image-to-token embedding layer.
func NewPatchEmbedding(inChannels, patchSize, embedDim int, rng *rand.Rand, b tensor.Backend) *PatchEmbedding {
	return nn.NewPatchEmbedding(inChannels, patchSize, embedDim, rng, b)
}

// NewPositionalEncoding creates the learned positional bias.
func NewPositionalEncoding(seqLen, embedDim int, rng *rand.Rand, b tensor.Backend) *PositionalEncoding {
	return nn.NewPositionalEncoding(seqLen, embedDim, rng, b)
}

// ScaledDotProductAttention computes softmax(QK^T/sqrt(d))V over 4D
// inputs [batch, heads, seq, headDim].
func ScaledDotProductAttention(query, key, value *tensor.Tensor) (*tensor.Tensor, *tensor.Tensor) {
	return nn.ScaledDotProductAttention(query, key, value)
}
