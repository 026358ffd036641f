package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glance-ml/glance/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape, b *Backend) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, b)
	require.NoError(t, err)
	return x
}

func TestElementwise(t *testing.T) {
	b := NewSequential()
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2}, b)
	y := fromSlice(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2}, b)

	assert.Equal(t, []float32{6, 8, 10, 12}, b.Add(x, y).Data())
	assert.Equal(t, []float32{-4, -4, -4, -4}, b.Sub(x, y).Data())
	assert.Equal(t, []float32{5, 12, 21, 32}, b.Mul(x, y).Data())
	assert.Equal(t, []float32{5, 3, 7.0 / 3.0, 2}, b.Div(y, x).Data())
}

func TestElementwiseDoesNotMutateInputs(t *testing.T) {
	b := NewSequential()
	x := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, b)
	y := fromSlice(t, []float32{3, 4}, tensor.Shape{2}, b)

	_ = b.Add(x, y)
	assert.Equal(t, []float32{1, 2}, x.Data())
	assert.Equal(t, []float32{3, 4}, y.Data())
}

func TestBroadcastAdd(t *testing.T) {
	b := NewSequential()

	// [2, 3] + [1, 3]: bias row added to each matrix row.
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, b)
	bias := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3}, b)
	got := b.Add(x, bias)
	assert.True(t, got.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, got.Data())

	// [2, 3] + [2, 1]: column vector against each column.
	col := fromSlice(t, []float32{100, 200}, tensor.Shape{2, 1}, b)
	got = b.Add(x, col)
	assert.Equal(t, []float32{101, 102, 103, 204, 205, 206}, got.Data())

	// [2, 4, 3] + [1, 4, 3]: positional bias over a batch.
	batch := tensor.Ones(tensor.Shape{2, 4, 3}, b)
	pos := fromSlice(t, []float32{
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11,
	}, tensor.Shape{1, 4, 3}, b)
	got = b.Add(batch, pos)
	assert.True(t, got.Shape().Equal(tensor.Shape{2, 4, 3}))
	assert.Equal(t, float32(1), got.At(0, 0, 0))
	assert.Equal(t, float32(12), got.At(1, 3, 2))
}

func TestBroadcastIncompatiblePanics(t *testing.T) {
	b := NewSequential()
	x := tensor.Ones(tensor.Shape{2, 3}, b)
	y := tensor.Ones(tensor.Shape{2, 4}, b)
	assert.Panics(t, func() { b.Add(x, y) })
}

func TestScalarOps(t *testing.T) {
	b := NewSequential()
	x := fromSlice(t, []float32{1, -2, 3}, tensor.Shape{3}, b)

	assert.Equal(t, []float32{3, 0, 5}, b.AddScalar(x, 2).Data())
	assert.Equal(t, []float32{-2, 4, -6}, b.MulScalar(x, -2).Data())
	assert.Equal(t, []float32{1, -2, 3}, x.Data(), "inputs must stay intact")
}

func TestParallelMatchesSequential(t *testing.T) {
	seq := NewSequential()
	par := New()

	data := make([]float32, 64*64)
	for i := range data {
		data[i] = float32(i%13) - 6
	}
	xs := fromSlice(t, data, tensor.Shape{64, 64}, seq)
	xp := fromSlice(t, data, tensor.Shape{64, 64}, par)

	assert.Equal(t, seq.Softmax(xs, -1).Data(), par.Softmax(xp, -1).Data())
	assert.Equal(t, seq.MatMul(xs, xs).Data(), par.MatMul(xp, xp).Data())
	assert.Equal(t, seq.GELU(xs).Data(), par.GELU(xp).Data())
}
