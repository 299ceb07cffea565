package tensor

// Backend defines the compute primitives the vmap machinery dispatches to.
// The random kernels fill buffers directly; everything that rearranges or
// replicates data between tensors goes through a Backend so alternative
// devices can supply their own implementations.
type Backend interface {
	// Stack concatenates tensors of identical shape along a new dimension
	// inserted at position dim.
	Stack(tensors []*RawTensor, dim int) (*RawTensor, error)

	// Cat concatenates tensors along an existing dimension.
	Cat(tensors []*RawTensor, dim int) (*RawTensor, error)

	// Copy copies src into dst. Shapes and dtypes must match.
	Copy(dst, src *RawTensor) error

	// ReplicateAlong copies src into every slice of dst along dim.
	// dst's shape with dim removed must equal src's shape.
	ReplicateAlong(dst, src *RawTensor, dim int) error

	// MoveDim returns a new tensor with the dimension at position from moved
	// to position to, materialized contiguously.
	MoveDim(t *RawTensor, from, to int) (*RawTensor, error)

	// Metadata
	Name() string
	Device() Device
}
