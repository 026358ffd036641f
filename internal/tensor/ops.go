package tensor

// Method forms of the Backend operations. These keep the layer code in
// internal/nn readable: x.MatMul(w).Add(b) instead of explicit backend
// plumbing.

// Add performs element-wise addition with broadcasting.
func (t *Tensor) Add(other *Tensor) *Tensor {
	return t.backend.Add(t, other)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor) Sub(other *Tensor) *Tensor {
	return t.backend.Sub(t, other)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor) Mul(other *Tensor) *Tensor {
	return t.backend.Mul(t, other)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor) Div(other *Tensor) *Tensor {
	return t.backend.Div(t, other)
}

// AddScalar adds a scalar to every element.
func (t *Tensor) AddScalar(s float32) *Tensor {
	return t.backend.AddScalar(t, s)
}

// MulScalar multiplies every element by a scalar.
func (t *Tensor) MulScalar(s float32) *Tensor {
	return t.backend.MulScalar(t, s)
}

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	return t.backend.MatMul(t, other)
}

// BatchMatMul performs matrix multiplication batched over leading dims.
func (t *Tensor) BatchMatMul(other *Tensor) *Tensor {
	return t.backend.BatchMatMul(t, other)
}

// Transpose permutes dimensions; with no axes, reverses them all.
func (t *Tensor) Transpose(axes ...int) *Tensor {
	return t.backend.Transpose(t, axes...)
}

// T is a shortcut for 2D transpose.
func (t *Tensor) T() *Tensor {
	if len(t.shape) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}

// Exp applies e^x element-wise.
func (t *Tensor) Exp() *Tensor {
	return t.backend.Exp(t)
}

// Sqrt applies the square root element-wise.
func (t *Tensor) Sqrt() *Tensor {
	return t.backend.Sqrt(t)
}

// Rsqrt applies the reciprocal square root element-wise.
func (t *Tensor) Rsqrt() *Tensor {
	return t.backend.Rsqrt(t)
}

// Softmax normalizes along dim with the stable max-subtracted form.
func (t *Tensor) Softmax(dim int) *Tensor {
	return t.backend.Softmax(t, dim)
}

// SumDim sums along a dimension.
func (t *Tensor) SumDim(dim int, keepDim bool) *Tensor {
	return t.backend.SumDim(t, dim, keepDim)
}

// MeanDim averages along a dimension.
func (t *Tensor) MeanDim(dim int, keepDim bool) *Tensor {
	return t.backend.MeanDim(t, dim, keepDim)
}

// Narrow returns the slice [start, start+length) along dim.
func (t *Tensor) Narrow(dim, start, length int) *Tensor {
	return t.backend.Narrow(t, dim, start, length)
}

// Cat concatenates tensors along dim. All tensors must share the
// remaining dimensions and the receiver's backend is used.
func Cat(tensors []*Tensor, dim int) *Tensor {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}
	return tensors[0].backend.Cat(tensors, dim)
}
