package nn

import (
	"math"
	"math/rand"

	"github.com/glance-ml/glance/internal/tensor"
)

// Xavier initializes a tensor with the Glorot uniform distribution:
// U(-sqrt(6/(fanIn+fanOut)), +sqrt(6/(fanIn+fanOut))). Keeps the
// activation variance roughly constant across layers.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, b tensor.Backend) *tensor.Tensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	t := tensor.Zeros(shape, b)
	data := t.Data()
	for i := range data {
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return t
}

// Normal initializes a tensor with values from N(0, std²). Used for the
// class token and the positional embedding table.
func Normal(shape tensor.Shape, std float32, rng *rand.Rand, b tensor.Backend) *tensor.Tensor {
	t := tensor.Randn(shape, rng, b)
	data := t.Data()
	for i := range data {
		data[i] *= std
	}
	return t
}
