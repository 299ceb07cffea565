package tensor

import "fmt"

// Zeros creates a zero-filled tensor with the given shape and dtype.
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	// Data is already zero-initialized by make()
	return NewRaw(shape, dtype, device)
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape, device Device) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(data))
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), device)
	if err != nil {
		return nil, err
	}
	copy(typedData[T](raw), data)
	return raw, nil
}

// typedData returns the typed view of raw matching T.
func typedData[T DType](raw *RawTensor) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(raw.AsFloat32()).([]T)
	case float64:
		return any(raw.AsFloat64()).([]T)
	case int32:
		return any(raw.AsInt32()).([]T)
	case int64:
		return any(raw.AsInt64()).([]T)
	default:
		panic("unsupported type")
	}
}
