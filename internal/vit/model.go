package vit

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/glance-ml/glance/internal/nn"
	"github.com/glance-ml/glance/internal/serialization"
	"github.com/glance-ml/glance/internal/tensor"
)

// VisionTransformer classifies images by embedding fixed-size patches
// into tokens, prepending a learned class token, adding a learned
// positional bias and running the sequence through a stack of post-norm
// encoder blocks. The class token's final representation feeds one
// affine head that produces the logits.
//
// The forward pass is pure apart from dropout in Train mode: it reads
// parameters, allocates transient tensors and returns. Concurrent Eval
// forwards over the same parameters are safe as long as no parameter
// mutation happens in flight.
type VisionTransformer struct {
	Config Config

	Patch      *nn.PatchEmbedding
	ClassToken *nn.Parameter // [1, 1, embedDim]
	Pos        *nn.PositionalEncoding
	Blocks     []*nn.EncoderBlock
	Head       *nn.Linear // [embedDim -> numClasses]

	backend tensor.Backend
	params  map[string]*tensor.Tensor
}

// New constructs a VisionTransformer with randomly initialized
// parameters. The configuration is validated first; an inconsistent
// configuration yields a ConfigError and no allocation.
func New(cfg Config, b tensor.Backend) (*VisionTransformer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	m := &VisionTransformer{
		Config:     cfg,
		Patch:      nn.NewPatchEmbedding(cfg.InChannels, cfg.PatchSize, cfg.EmbedDim, rng, b),
		ClassToken: nn.NewParameter("cls_token", nn.Normal(tensor.Shape{1, 1, cfg.EmbedDim}, 0.02, rng, b)),
		Pos:        nn.NewPositionalEncoding(cfg.SeqLen(), cfg.EmbedDim, rng, b),
		Blocks:     make([]*nn.EncoderBlock, cfg.NumLayers),
		Head:       nn.NewLinear(cfg.EmbedDim, cfg.NumClasses, rng, b),
		backend:    b,
	}
	for i := range m.Blocks {
		block, err := nn.NewEncoderBlock(cfg.EmbedDim, cfg.NumHeads, cfg.MLPDim, cfg.Dropout, NormEps, rng, b)
		if err != nil {
			return nil, err
		}
		m.Blocks[i] = block
	}

	m.params = m.collectParameters()
	return m, nil
}

// Forward maps an image batch [batch, channels, S, S] to logits
// [batch, numClasses]. Input shape is validated against the
// configuration before any computation; a mismatch returns a
// ConfigError and no partial result.
func (m *VisionTransformer) Forward(x *tensor.Tensor, mode nn.Mode) (*tensor.Tensor, error) {
	if err := m.validateInput(x); err != nil {
		return nil, err
	}
	batch := x.Shape()[0]

	tokens, err := m.Patch.Forward(x) // [batch, nPatches, embedDim]
	if err != nil {
		return nil, err
	}

	seq := tensor.Cat([]*tensor.Tensor{m.broadcastClassToken(batch), tokens}, 1)
	seq, err = m.Pos.Forward(seq)
	if err != nil {
		return nil, err
	}

	for _, block := range m.Blocks {
		seq = block.Forward(seq, mode)
	}

	// Class token representation is at sequence position 0.
	cls := seq.Narrow(1, 0, 1).Reshape(batch, m.Config.EmbedDim)
	return m.Head.Forward(cls), nil
}

func (m *VisionTransformer) validateInput(x *tensor.Tensor) error {
	shape := x.Shape()
	if len(shape) != 4 {
		return nn.NewConfigError("forward: expected 4D input [batch, channels, height, width], got %v", shape)
	}
	if shape[1] != m.Config.InChannels {
		return nn.NewConfigError("forward: expected %d channels, got %d", m.Config.InChannels, shape[1])
	}
	if shape[2] != m.Config.ImageSize || shape[3] != m.Config.ImageSize {
		return nn.NewConfigError("forward: expected %dx%d input, got %dx%d",
			m.Config.ImageSize, m.Config.ImageSize, shape[2], shape[3])
	}
	return nil
}

// broadcastClassToken replicates the learned class token across the
// batch: [1, 1, embedDim] -> [batch, 1, embedDim].
func (m *VisionTransformer) broadcastClassToken(batch int) *tensor.Tensor {
	src := m.ClassToken.Data()
	out := tensor.Zeros(tensor.Shape{batch, 1, m.Config.EmbedDim}, m.backend)
	dst := out.Data()
	for b := 0; b < batch; b++ {
		copy(dst[b*m.Config.EmbedDim:(b+1)*m.Config.EmbedDim], src)
	}
	return out
}

// collectParameters builds the model's explicit parameter container:
// a flat map from qualified name to tensor. Built once at construction;
// save/load and external optimizers go through this map, there is no
// hidden registry.
func (m *VisionTransformer) collectParameters() map[string]*tensor.Tensor {
	params := make(map[string]*tensor.Tensor)

	addLinear := func(prefix string, l *nn.Linear) {
		params[prefix+".weight"] = l.Weight().Tensor()
		params[prefix+".bias"] = l.Bias().Tensor()
	}
	addNorm := func(prefix string, n *nn.LayerNorm) {
		params[prefix+".gamma"] = n.Gamma.Tensor()
		params[prefix+".beta"] = n.Beta.Tensor()
	}

	addLinear("patch.proj", m.Patch.Proj)
	params["cls_token"] = m.ClassToken.Tensor()
	params["pos_embed"] = m.Pos.Bias.Tensor()

	for i, block := range m.Blocks {
		prefix := fmt.Sprintf("blocks.%d", i)
		addLinear(prefix+".attn.wq", block.Attention.WQ)
		addLinear(prefix+".attn.wk", block.Attention.WK)
		addLinear(prefix+".attn.wv", block.Attention.WV)
		addLinear(prefix+".attn.wo", block.Attention.WO)
		addNorm(prefix+".norm1", block.AttnNorm)
		addLinear(prefix+".mlp.fc1", block.FFN.Linear1)
		addLinear(prefix+".mlp.fc2", block.FFN.Linear2)
		addNorm(prefix+".norm2", block.FFNNorm)
	}

	addLinear("head", m.Head)
	return params
}

// Parameters returns the model's named parameter container. The map and
// the tensors are live: mutating a tensor's data updates the model.
// Callers must not mutate during an in-flight forward pass.
func (m *VisionTransformer) Parameters() map[string]*tensor.Tensor {
	return m.params
}

// NumParameters returns the total element count over all parameters.
func (m *VisionTransformer) NumParameters() int {
	total := 0
	for _, t := range m.params {
		total += t.NumElements()
	}
	return total
}

// LoadStateDict copies values from a named-tensor dictionary into the
// model. Every model parameter must be present with a matching shape;
// unknown names in the dictionary are an error.
func (m *VisionTransformer) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	for name := range stateDict {
		if _, ok := m.params[name]; !ok {
			return fmt.Errorf("unknown parameter %q in state dict", name)
		}
	}
	for name, dst := range m.params {
		src, ok := stateDict[name]
		if !ok {
			return fmt.Errorf("missing parameter %q in state dict", name)
		}
		if !src.Shape().Equal(dst.Shape()) {
			return fmt.Errorf("parameter %q shape mismatch: expected %v, got %v", name, dst.Shape(), src.Shape())
		}
		copy(dst.Data(), src.Data())
	}
	return nil
}

// Save writes the model's parameters to a Glance checkpoint file.
func (m *VisionTransformer) Save(path string) error {
	return serialization.WriteStateDict(path, "VisionTransformer", m.params)
}

// Load reads a Glance checkpoint and copies its parameters into the
// model. The checkpoint must match the model's architecture exactly.
func (m *VisionTransformer) Load(path string) error {
	_, stateDict, err := serialization.ReadStateDict(path, m.backend)
	if err != nil {
		return err
	}
	return m.LoadStateDict(stateDict)
}
