package ops

import (
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/tensor"
)

// Mul is the gradient rule of element-wise multiplication:
// grad_a = grad * b, grad_b = grad * a.
type Mul struct{}

// Name returns "mul".
func (Mul) Name() string { return "mul" }

// Grad multiplies the output gradient by the other operand.
func (Mul) Grad(backend *cpu.CPUBackend, outputGrad, a, b *tensor.RawTensor, input int) (*tensor.RawTensor, error) {
	self, other := pick(a, b, input)
	g, err := backend.Mul(outputGrad, other)
	if err != nil {
		return nil, err
	}
	return reduceBroadcast(backend, g, self.Shape())
}
