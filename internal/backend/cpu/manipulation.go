package cpu

import (
	"fmt"

	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/tensor"
)

// Cat concatenates tensors along an existing dimension.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) (*tensor.RawTensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("cat: at least one tensor required")
	}
	first := tensors[0]
	rank := len(first.Shape())
	if dim < 0 || dim >= rank {
		return nil, fmt.Errorf("cat: dimension %d out of range for rank %d", dim, rank)
	}

	catSize := 0
	for i, t := range tensors {
		if t.DType() != first.DType() {
			return nil, fmt.Errorf("cat: dtype mismatch: %s vs %s", t.DType(), first.DType())
		}
		if len(t.Shape()) != rank {
			return nil, fmt.Errorf("cat: rank mismatch: %d vs %d", len(t.Shape()), rank)
		}
		for d := 0; d < rank; d++ {
			if d != dim && t.Shape()[d] != first.Shape()[d] {
				return nil, fmt.Errorf("cat: tensor %d has shape %v, incompatible with %v along dim %d",
					i, t.Shape(), first.Shape(), dim)
			}
		}
		catSize += t.Shape()[dim]
	}

	outShape := first.Shape().Clone()
	outShape[dim] = catSize
	out, err := tensor.NewRaw(outShape, first.DType(), cpu.device)
	if err != nil {
		return nil, fmt.Errorf("cat: %w", err)
	}

	// Row-major layout: each tensor contributes one contiguous block per
	// index of the dimensions before dim.
	es := first.DType().Size()
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= outShape[d]
	}
	inner := es
	for d := dim + 1; d < rank; d++ {
		inner *= outShape[d]
	}

	outData := out.Data()
	outPos := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			block := t.Shape()[dim] * inner
			copy(outData[outPos:outPos+block], t.Data()[o*block:(o+1)*block])
			outPos += block
		}
	}
	return out, nil
}

// Stack concatenates tensors of identical shape along a new dimension
// inserted at position dim.
func (cpu *CPUBackend) Stack(tensors []*tensor.RawTensor, dim int) (*tensor.RawTensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("stack: at least one tensor required")
	}
	first := tensors[0]
	if dim < 0 || dim > len(first.Shape()) {
		return nil, fmt.Errorf("stack: dimension %d out of range for rank %d", dim, len(first.Shape()))
	}

	unsqueezed := make([]*tensor.RawTensor, len(tensors))
	for i, t := range tensors {
		if !t.Shape().Equal(first.Shape()) {
			return nil, fmt.Errorf("stack: tensor %d has shape %v, want %v", i, t.Shape(), first.Shape())
		}
		u, err := t.WithShape(t.Shape().Insert(dim, 1))
		if err != nil {
			return nil, fmt.Errorf("stack: %w", err)
		}
		unsqueezed[i] = u
	}
	return cpu.Cat(unsqueezed, dim)
}

// Copy copies src into dst. Shapes and dtypes must match.
func (cpu *CPUBackend) Copy(dst, src *tensor.RawTensor) error {
	return dst.CopyFrom(src)
}

// ReplicateAlong copies src into every slice of dst along dim.
func (cpu *CPUBackend) ReplicateAlong(dst, src *tensor.RawTensor, dim int) error {
	rank := len(dst.Shape())
	if dim < 0 || dim >= rank {
		return fmt.Errorf("replicate: dimension %d out of range for rank %d", dim, rank)
	}
	if dst.DType() != src.DType() {
		return fmt.Errorf("replicate: dtype mismatch: %s vs %s", dst.DType(), src.DType())
	}
	if !dst.Shape().Delete(dim).Equal(src.Shape()) {
		return fmt.Errorf("replicate: dst %v minus dim %d does not match src %v",
			dst.Shape(), dim, src.Shape())
	}

	es := dst.DType().Size()
	n := dst.Shape()[dim]
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= dst.Shape()[d]
	}
	inner := es
	for d := dim + 1; d < rank; d++ {
		inner *= dst.Shape()[d]
	}

	dstData := dst.Data()
	srcData := src.Data()
	parallel.ForRange(outer, func(start, end int) {
		for o := start; o < end; o++ {
			chunk := srcData[o*inner : (o+1)*inner]
			base := o * n * inner
			for b := 0; b < n; b++ {
				copy(dstData[base+b*inner:base+(b+1)*inner], chunk)
			}
		}
	}, cpu.par)
	return nil
}

// MoveDim returns a contiguous tensor with the dimension at position from
// moved to position to.
func (cpu *CPUBackend) MoveDim(t *tensor.RawTensor, from, to int) (*tensor.RawTensor, error) {
	rank := len(t.Shape())
	if from < 0 || from >= rank || to < 0 || to >= rank {
		return nil, fmt.Errorf("movedim: dimensions (%d, %d) out of range for rank %d", from, to, rank)
	}
	if from == to {
		return t.Clone(), nil
	}

	// perm[j] = source dimension feeding output dimension j.
	perm := make([]int, 0, rank)
	for d := 0; d < rank; d++ {
		if d != from {
			perm = append(perm, d)
		}
	}
	perm = append(perm[:to], append([]int{from}, perm[to:]...)...)

	outShape := make(tensor.Shape, rank)
	srcStrides := make([]int, rank)
	for j, d := range perm {
		outShape[j] = t.Shape()[d]
		srcStrides[j] = t.Strides()[d]
	}

	out, err := tensor.NewRaw(outShape, t.DType(), cpu.device)
	if err != nil {
		return nil, fmt.Errorf("movedim: %w", err)
	}

	es := t.DType().Size()
	srcData := t.Data()
	outData := out.Data()
	outStrides := outShape.ComputeStrides()
	parallel.ForRange(out.NumElements(), func(start, end int) {
		for i := start; i < end; i++ {
			rem := i
			srcOff := 0
			for j := 0; j < rank; j++ {
				srcOff += (rem / outStrides[j]) * srcStrides[j]
				rem %= outStrides[j]
			}
			copy(outData[i*es:(i+1)*es], srcData[srcOff*es:(srcOff+1)*es])
		}
	}, cpu.par)
	return out, nil
}
