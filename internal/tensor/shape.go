package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions >= 0).
// Zero-size dimensions are allowed; they describe empty tensors.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Prepend returns a new shape with dim inserted as the leading dimension.
// The receiver is not modified.
func (s Shape) Prepend(dim int) Shape {
	out := make(Shape, 0, len(s)+1)
	out = append(out, dim)
	out = append(out, s...)
	return out
}

// Delete returns a new shape with the dimension at index dim removed.
// Panics if dim is out of range.
func (s Shape) Delete(dim int) Shape {
	if dim < 0 || dim >= len(s) {
		panic(fmt.Sprintf("shape %v has no dimension %d", s, dim))
	}
	out := make(Shape, 0, len(s)-1)
	out = append(out, s[:dim]...)
	out = append(out, s[dim+1:]...)
	return out
}

// Insert returns a new shape with size inserted at index dim.
// Panics if dim is out of range.
func (s Shape) Insert(dim, size int) Shape {
	if dim < 0 || dim > len(s) {
		panic(fmt.Sprintf("cannot insert at dimension %d of shape %v", dim, s))
	}
	out := make(Shape, 0, len(s)+1)
	out = append(out, s[:dim]...)
	out = append(out, size)
	out = append(out, s[dim:]...)
	return out
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String returns a human-readable representation like [2 3 4].
func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}
