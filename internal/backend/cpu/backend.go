// Package cpu implements the forward and gradient kernels on CPU.
//
// Every kernel accepts strided inputs (views produced by Permute, Expand or
// Narrow) and writes a freshly allocated contiguous output. Validation
// failures go through the tensor error hook and return a wrapped sentinel.
package cpu

import (
	"github.com/born-ml/gradcore/internal/parallel"
	"github.com/born-ml/gradcore/internal/tensor"
)

// CPUBackend runs tensor kernels on CPU, fanning elementwise loops out
// according to its parallel configuration.
type CPUBackend struct {
	cfg parallel.Config
}

// New creates a CPU backend with parallel.DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel config.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{cfg: cfg}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Config returns the parallel configuration.
func (cpu *CPUBackend) Config() parallel.Config {
	return cpu.cfg
}

func live(op string, ts ...*tensor.RawTensor) error {
	for _, t := range ts {
		if t == nil {
			return tensor.Errorf(tensor.ErrAllocation, "%s: nil tensor", op)
		}
		if err := t.Live(); err != nil {
			return err
		}
	}
	return nil
}

func sameDType(op string, a, b *tensor.RawTensor) error {
	if a.DType() != b.DType() {
		return tensor.Errorf(tensor.ErrDType, "%s: dtype mismatch %s vs %s", op, a.DType(), b.DType())
	}
	return nil
}

func requireFloat(op string, t *tensor.RawTensor) error {
	if !t.DType().IsFloat() {
		return tensor.Errorf(tensor.ErrDType, "%s: unsupported dtype %s (only float32/float64 supported)", op, t.DType())
	}
	return nil
}

// zipWith writes f(a[i], b[i]) into out for every logical element. a and b
// must have out's dims; out must be contiguous.
func zipWith[T tensor.DType](out, a, b *tensor.RawTensor, f func(x, y T) T, cfg parallel.Config) {
	dst := tensor.Data[T](out)
	x := tensor.Data[T](a)
	y := tensor.Data[T](b)
	la, lb := a.Layout(), b.Layout()
	fast := la.IsContiguous() && lb.IsContiguous()

	parallel.ForRange(out.NumElements(), func(start, end int) {
		if fast {
			for i := start; i < end; i++ {
				dst[i] = f(x[i], y[i])
			}
			return
		}
		for i := start; i < end; i++ {
			dst[i] = f(x[la.LinearOffset(i)], y[lb.LinearOffset(i)])
		}
	}, cfg)
}

// mapWith writes f(a[i]) into out for every logical element.
func mapWith[T tensor.DType](out, a *tensor.RawTensor, f func(x T) T, cfg parallel.Config) {
	dst := tensor.Data[T](out)
	x := tensor.Data[T](a)
	la := a.Layout()
	fast := la.IsContiguous()

	parallel.ForRange(out.NumElements(), func(start, end int) {
		if fast {
			for i := start; i < end; i++ {
				dst[i] = f(x[i])
			}
			return
		}
		for i := start; i < end; i++ {
			dst[i] = f(x[la.LinearOffset(i)])
		}
	}, cfg)
}
