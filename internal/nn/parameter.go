package nn

import "github.com/glance-ml/glance/internal/tensor"

// Parameter is a named tensor whose values persist across forward
// calls. The forward pass only reads parameters; mutation (training
// updates, checkpoint loading) happens strictly between forward calls.
type Parameter struct {
	name   string
	tensor *tensor.Tensor
}

// NewParameter creates a parameter wrapping an initialized tensor.
// The name is local to the owning layer ("weight", "bias", "gamma");
// the model qualifies it with the layer path when building its
// parameter map.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{name: name, tensor: t}
}

// Name returns the parameter's local name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Data returns the parameter's underlying buffer (zero-copy).
func (p *Parameter) Data() []float32 {
	return p.tensor.Data()
}
