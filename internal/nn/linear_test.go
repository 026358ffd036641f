package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glance-ml/glance/internal/backend/cpu"
	"github.com/glance-ml/glance/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape, b tensor.Backend) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, b)
	require.NoError(t, err)
	return x
}

func TestLinearKnownWeights(t *testing.T) {
	b := cpu.NewSequential()
	rng := rand.New(rand.NewSource(1))
	l := NewLinear(3, 2, rng, b)

	// W [2, 3], y = x @ W.T + bias
	copy(l.Weight().Tensor().Data(), []float32{
		1, 0, 0,
		0, 1, 1,
	})
	copy(l.Bias().Tensor().Data(), []float32{10, 20})

	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{1, 3}, b)
	got := l.Forward(x)

	assert.True(t, got.Shape().Equal(tensor.Shape{1, 2}))
	assert.Equal(t, []float32{11, 25}, got.Data())
}

func TestLinear3DInput(t *testing.T) {
	b := cpu.NewSequential()
	rng := rand.New(rand.NewSource(2))
	l := NewLinear(4, 6, rng, b)

	x := tensor.Randn(tensor.Shape{2, 5, 4}, rng, b)
	got := l.Forward(x)
	assert.True(t, got.Shape().Equal(tensor.Shape{2, 5, 6}))

	// Folding must be equivalent to running each token through the 2D path.
	tok := fromSlice(t, x.Data()[4:8], tensor.Shape{1, 4}, b)
	want := l.Forward(tok)
	for j := 0; j < 6; j++ {
		assert.InDelta(t, want.At(0, j), got.At(0, 1, j), 1e-6)
	}
}

func TestLinearRejectsBadInput(t *testing.T) {
	b := cpu.NewSequential()
	l := NewLinear(3, 2, rand.New(rand.NewSource(1)), b)

	assert.Panics(t, func() { l.Forward(tensor.Ones(tensor.Shape{4}, b)) })
	assert.Panics(t, func() { l.Forward(tensor.Ones(tensor.Shape{2, 4}, b)) })
}

func TestLinearBiasStartsZero(t *testing.T) {
	b := cpu.NewSequential()
	l := NewLinear(8, 8, rand.New(rand.NewSource(3)), b)
	for _, v := range l.Bias().Tensor().Data() {
		assert.Equal(t, float32(0), v)
	}
}

func TestXavierRange(t *testing.T) {
	b := cpu.NewSequential()
	rng := rand.New(rand.NewSource(4))

	const fanIn, fanOut = 64, 128
	w := Xavier(fanIn, fanOut, tensor.Shape{fanOut, fanIn}, rng, b)

	// Uniform in [-limit, limit] with limit = sqrt(6/(fanIn+fanOut)).
	limit := float32(0.1767767)
	var sum float64
	for _, v := range w.Data() {
		assert.LessOrEqual(t, v, limit)
		assert.GreaterOrEqual(t, v, -limit)
		sum += float64(v)
	}
	mean := sum / float64(len(w.Data()))
	assert.InDelta(t, 0, mean, 0.01)
}
