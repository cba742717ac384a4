package ops

import (
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/tensor"
)

// Add is the gradient rule of element-wise addition. The output gradient
// flows unchanged into both inputs.
type Add struct{}

// Name returns "add".
func (Add) Name() string { return "add" }

// Grad returns a copy of outputGrad reduced to the input's shape.
func (Add) Grad(backend *cpu.CPUBackend, outputGrad, a, b *tensor.RawTensor, input int) (*tensor.RawTensor, error) {
	self, _ := pick(a, b, input)
	g, err := outputGrad.Clone()
	if err != nil {
		return nil, err
	}
	return reduceBroadcast(backend, g, self.Shape())
}
