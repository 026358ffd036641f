package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, b Backend) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return New(make([]float32, shape.NumElements()), shape, b)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, b Backend) *Tensor {
	return Full(shape, 1, b)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float32, b Backend) *Tensor {
	t := Zeros(shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from N(0, 1) using the given
// source. Uses the Box-Muller transform. math/rand is intentional: the
// values seed model parameters, not secrets, and a fixed seed makes
// initialization reproducible.
func Randn(shape Shape, rng *rand.Rand, b Backend) *Tensor {
	t := Zeros(shape, b)
	data := t.Data()
	for i := 0; i < len(data); i += 2 {
		u1 := rng.Float64()
		u2 := rng.Float64()
		r := math.Sqrt(-2.0 * math.Log(1-u1))
		data[i] = float32(r * math.Cos(2.0*math.Pi*u2))
		if i+1 < len(data) {
			data[i+1] = float32(r * math.Sin(2.0*math.Pi*u2))
		}
	}
	return t
}

// Arange creates a 1D tensor with values [start, start+1, ..., end-1].
func Arange(start, end int, b Backend) *Tensor {
	if end < start {
		panic(fmt.Sprintf("arange: end %d < start %d", end, start))
	}
	n := end - start
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(start + i)
	}
	return New(data, Shape{n}, b)
}
