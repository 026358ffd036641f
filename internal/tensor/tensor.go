// Package tensor provides the dense float32 tensor type used throughout
// the Glance framework.
//
// A Tensor owns a contiguous row-major buffer and a Shape. All numeric
// work is delegated to a Backend so that the layer code in internal/nn
// stays independent of how the arithmetic is carried out.
package tensor

import "fmt"

// Tensor is a dense, contiguous, row-major float32 array with an
// explicit shape. The invariant len(data) == shape.NumElements() holds
// for every constructed tensor.
type Tensor struct {
	data    []float32
	shape   Shape
	strides []int
	backend Backend
}

// New creates a Tensor over an existing buffer without copying.
// The buffer length must match the shape exactly.
func New(data []float32, shape Shape, b Backend) *Tensor {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("tensor.New: shape %v requires %d elements, buffer has %d",
			shape, shape.NumElements(), len(data)))
	}
	return &Tensor{
		data:    data,
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		backend: b,
	}
}

// FromSlice creates a tensor by copying a Go slice.
func FromSlice(data []float32, shape Shape, b Backend) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(data))
	}
	buf := make([]float32, len(data))
	copy(buf, data)
	return New(buf, shape, b), nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's row-major memory strides.
func (t *Tensor) Strides() []int {
	return t.strides
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// Backend returns the computation backend.
func (t *Tensor) Backend() Backend {
	return t.backend
}

// Data returns the underlying buffer (zero-copy).
//
// WARNING: modifications to the returned slice modify the tensor.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Item returns the value of a single-element tensor.
func (t *Tensor) Item() float32 {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", t.shape))
	}
	return t.data[0]
}

// At returns the element at the given indices.
func (t *Tensor) At(indices ...int) float32 {
	return t.data[t.offsetOf(indices)]
}

// Set stores value at the given indices.
func (t *Tensor) Set(value float32, indices ...int) {
	t.data[t.offsetOf(indices)] = value
}

func (t *Tensor) offsetOf(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * t.strides[i]
	}
	return offset
}

// Clone creates a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	buf := make([]float32, len(t.data))
	copy(buf, t.data)
	return New(buf, t.shape, t.backend)
}

// Reshape returns a view over the same buffer with a new shape.
// The element count must be preserved. This is a metadata-only
// operation: the returned tensor shares data with the receiver.
func (t *Tensor) Reshape(dims ...int) *Tensor {
	newShape := Shape(dims)
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes %v -> %v (element count differs)",
			t.shape, newShape))
	}
	return New(t.data, newShape, t.backend)
}

// Unsqueeze returns a view with a size-1 dimension inserted at dim.
func (t *Tensor) Unsqueeze(dim int) *Tensor {
	ndim := len(t.shape)
	if dim < 0 {
		dim += ndim + 1
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for rank-%d tensor", dim, ndim))
	}
	newShape := make(Shape, 0, ndim+1)
	newShape = append(newShape, t.shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, t.shape[dim:]...)
	return New(t.data, newShape, t.backend)
}

// Squeeze returns a view with the size-1 dimension at dim removed.
func (t *Tensor) Squeeze(dim int) *Tensor {
	d := normalizeDim(dim, len(t.shape))
	if t.shape[d] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, not 1", d, t.shape[d]))
	}
	newShape := make(Shape, 0, len(t.shape)-1)
	newShape = append(newShape, t.shape[:d]...)
	newShape = append(newShape, t.shape[d+1:]...)
	return New(t.data, newShape, t.backend)
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v on %s", t.shape, t.backend.Name())
}
