// Package nn implements the neural network layers of the Glance
// framework: linear projections, layer normalization, dropout, GELU,
// multi-head self-attention, the transformer encoder block, and the
// vision-specific patch and positional embeddings.
//
// Layers are plain structs holding Parameters plus a Forward method.
// There is no polymorphic module base and no global parameter registry:
// the model in internal/vit composes layers explicitly and builds its
// parameter map once at construction.
package nn

import "fmt"

// Mode selects between training and inference behavior for layers with
// stochastic components (dropout). It is passed explicitly through
// Forward calls instead of being stored as hidden mutable state.
type Mode int

// Forward-pass modes.
const (
	// Train enables stochastic behavior (dropout masks activations).
	Train Mode = iota
	// Eval makes every layer deterministic (dropout is the identity).
	Eval
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case Train:
		return "train"
	case Eval:
		return "eval"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
