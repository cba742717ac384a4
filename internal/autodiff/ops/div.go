package ops

import (
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/tensor"
)

// Div is the gradient rule of element-wise division:
// grad_a = grad / b, grad_b = -grad * a / b².
type Div struct{}

// Name returns "div".
func (Div) Name() string { return "div" }

// Grad computes the division gradient for one input.
func (Div) Grad(backend *cpu.CPUBackend, outputGrad, a, b *tensor.RawTensor, input int) (*tensor.RawTensor, error) {
	if input == 0 {
		g, err := backend.Div(outputGrad, b)
		if err != nil {
			return nil, err
		}
		return reduceBroadcast(backend, g, a.Shape())
	}

	numerator, err := backend.Mul(outputGrad, a)
	if err != nil {
		return nil, err
	}
	defer numerator.Free()
	bSquared, err := backend.Mul(b, b)
	if err != nil {
		return nil, err
	}
	defer bSquared.Free()
	q, err := backend.Div(numerator, bSquared)
	if err != nil {
		return nil, err
	}
	defer q.Free()
	g, err := backend.Neg(q)
	if err != nil {
		return nil, err
	}
	return reduceBroadcast(backend, g, b.Shape())
}
