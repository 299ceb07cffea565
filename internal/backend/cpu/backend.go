// Package cpu implements the CPU backend for the data-movement primitives
// consumed by the vmap machinery.
package cpu

import (
	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/tensor"
)

// CPUBackend implements tensor data-movement operations on CPU.
// All kernels are dtype-generic: they move element-sized byte blocks driven
// by row-major strides. Large copies are spread across CPU workers.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU, par: parallel.DefaultConfig()}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}
