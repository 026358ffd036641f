package tensor

// Backend defines the interface a compute backend must implement.
// The set of operations is closed and sized to what the vision
// transformer forward pass needs; internal/backend/cpu is the reference
// implementation.
//
// Backend operations panic with a descriptive message when a shape
// invariant is violated. Model-level code validates inputs before
// calling into the backend, so a panic here indicates a programming
// error rather than bad user input.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *Tensor) *Tensor
	Sub(a, b *Tensor) *Tensor
	Mul(a, b *Tensor) *Tensor
	Div(a, b *Tensor) *Tensor

	// Element-wise operations with a scalar.
	AddScalar(x *Tensor, s float32) *Tensor
	MulScalar(x *Tensor, s float32) *Tensor

	// MatMul multiplies 2D matrices: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *Tensor) *Tensor

	// BatchMatMul multiplies matrices batched over leading dimensions:
	// [..., M, K] @ [..., K, N] -> [..., M, N] for rank 3 and 4.
	BatchMatMul(a, b *Tensor) *Tensor

	// Transpose permutes dimensions. With no axes, all dimensions are
	// reversed (standard 2D transpose).
	Transpose(t *Tensor, axes ...int) *Tensor

	// Element-wise math.
	Exp(x *Tensor) *Tensor
	Sqrt(x *Tensor) *Tensor
	Rsqrt(x *Tensor) *Tensor
	GELU(x *Tensor) *Tensor

	// Softmax along dim, with the row maximum subtracted before
	// exponentiation so large scores cannot overflow.
	Softmax(x *Tensor, dim int) *Tensor

	// Reductions along a dimension (negative dim counts from the end).
	SumDim(x *Tensor, dim int, keepDim bool) *Tensor
	MeanDim(x *Tensor, dim int, keepDim bool) *Tensor

	// Cat concatenates tensors along dim; all other dimensions must match.
	Cat(tensors []*Tensor, dim int) *Tensor

	// Narrow returns a copy of the slice [start, start+length) along dim.
	Narrow(x *Tensor, dim, start, length int) *Tensor

	// Name identifies the backend ("CPU", ...).
	Name() string
}
