package vmap

// Randomness is the policy governing how random operations behave underneath
// an active vmap transform layer.
type Randomness int

// Randomness modes. RandomnessError is the default: a caller who has not
// opted into a policy gets a hard error instead of silently shared or
// silently independent draws.
const (
	RandomnessError Randomness = iota
	RandomnessSame
	RandomnessDifferent
)

// String returns the user-facing mode name.
func (r Randomness) String() string {
	switch r {
	case RandomnessError:
		return "error"
	case RandomnessSame:
		return "same"
	case RandomnessDifferent:
		return "different"
	default:
		return "unknown"
	}
}

// LayerID identifies the transform layer that owns a batched tensor.
type LayerID int64

// Layer is one nesting level of an active vmap transform. It is immutable
// for its lifetime; the batching rules only ever read it.
type Layer struct {
	batchSize  int
	id         LayerID
	randomness Randomness
}

// BatchSize returns the number of simulated parallel executions.
func (l *Layer) BatchSize() int {
	return l.batchSize
}

// ID returns the layer's identifier.
func (l *Layer) ID() LayerID {
	return l.id
}

// Randomness returns the layer's randomness mode.
func (l *Layer) Randomness() Randomness {
	return l.randomness
}
