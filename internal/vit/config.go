// Package vit assembles the Glance Vision Transformer: patch embedding,
// class token, learned positional encoding, a stack of post-norm
// encoder blocks and the classification head.
package vit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/glance-ml/glance/internal/nn"
)

// Config fixes the model architecture. Every parameter shape derives
// from these fields; they cannot change after construction.
type Config struct {
	ImageSize  int     `yaml:"image_size"`  // input height and width (square)
	InChannels int     `yaml:"in_channels"` // input channels (3 for RGB)
	PatchSize  int     `yaml:"patch_size"`  // side of one square patch
	EmbedDim   int     `yaml:"embed_dim"`   // token embedding dimension
	MLPDim     int     `yaml:"mlp_dim"`     // hidden dimension of the FFN sub-layer
	NumHeads   int     `yaml:"num_heads"`   // attention heads per block
	NumLayers  int     `yaml:"num_layers"`  // encoder blocks in the stack
	NumClasses int     `yaml:"num_classes"` // classification output size
	Dropout    float32 `yaml:"dropout"`     // drop probability, train mode only
	Seed       int64   `yaml:"seed"`        // parameter init seed (0 = time-based)
}

// NormEps is the LayerNorm variance epsilon used by every block.
const NormEps = 1e-5

// Validate checks the configuration for internal consistency.
// All violations are ConfigErrors and are surfaced before any parameter
// is allocated.
func (c Config) Validate() error {
	for _, field := range []struct {
		name  string
		value int
	}{
		{"image_size", c.ImageSize},
		{"in_channels", c.InChannels},
		{"patch_size", c.PatchSize},
		{"embed_dim", c.EmbedDim},
		{"mlp_dim", c.MLPDim},
		{"num_heads", c.NumHeads},
		{"num_layers", c.NumLayers},
		{"num_classes", c.NumClasses},
	} {
		if field.value <= 0 {
			return nn.NewConfigError("config: %s must be positive, got %d", field.name, field.value)
		}
	}
	if c.ImageSize%c.PatchSize != 0 {
		return nn.NewConfigError("config: image_size %d is not divisible by patch_size %d", c.ImageSize, c.PatchSize)
	}
	if c.EmbedDim%c.NumHeads != 0 {
		return nn.NewConfigError("config: embed_dim %d is not divisible by num_heads %d", c.EmbedDim, c.NumHeads)
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return nn.NewConfigError("config: dropout must be in [0, 1), got %v", c.Dropout)
	}
	return nil
}

// NumPatches returns the patch count per image: (S/P)².
func (c Config) NumPatches() int {
	side := c.ImageSize / c.PatchSize
	return side * side
}

// SeqLen returns the encoder sequence length: patches plus class token.
func (c Config) SeqLen() int {
	return c.NumPatches() + 1
}

// HeadDim returns the per-head subspace size.
func (c Config) HeadDim() int {
	return c.EmbedDim / c.NumHeads
}

// Base returns the ViT-Base/16 configuration for 224×224 RGB input.
func Base(numClasses int) Config {
	return Config{
		ImageSize:  224,
		InChannels: 3,
		PatchSize:  16,
		EmbedDim:   768,
		MLPDim:     3072,
		NumHeads:   12,
		NumLayers:  12,
		NumClasses: numClasses,
		Dropout:    0.1,
	}
}

// LoadConfig reads and validates a YAML model configuration.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
