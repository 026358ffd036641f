package nn

import (
	"fmt"
	"math/rand"

	"github.com/glance-ml/glance/internal/tensor"
)

// Dropout zeroes activations with probability p during training and
// scales the survivors by 1/(1-p) (inverted dropout), so that the
// expected activation magnitude matches inference. In Eval mode it is
// the identity.
//
// The mask source is the layer's own rng; training forwards are assumed
// to be single-threaded per the optimizer boundary contract. Eval-mode
// forwards never touch the rng and stay safe to run concurrently.
type Dropout struct {
	p   float32
	rng *rand.Rand
}

// NewDropout creates a Dropout layer with drop probability p in [0, 1).
func NewDropout(p float32, rng *rand.Rand) *Dropout {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("Dropout: probability must be in [0, 1), got %v", p))
	}
	return &Dropout{p: p, rng: rng}
}

// Forward applies the dropout mask in Train mode; in Eval mode (or with
// p == 0) the input is returned unchanged.
func (d *Dropout) Forward(x *tensor.Tensor, mode Mode) *tensor.Tensor {
	if mode == Eval || d.p == 0 {
		return x
	}

	out := x.Clone()
	data := out.Data()
	scale := 1.0 / (1.0 - d.p)
	for i := range data {
		if d.rng.Float32() < d.p {
			data[i] = 0
		} else {
			data[i] *= scale
		}
	}
	return out
}

// P returns the configured drop probability.
func (d *Dropout) P() float32 {
	return d.p
}
