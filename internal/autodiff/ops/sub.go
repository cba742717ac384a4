package ops

import (
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/tensor"
)

// Sub is the gradient rule of element-wise subtraction: +grad into a,
// -grad into b.
type Sub struct{}

// Name returns "sub".
func (Sub) Name() string { return "sub" }

// Grad computes the subtraction gradient for one input.
func (Sub) Grad(backend *cpu.CPUBackend, outputGrad, a, b *tensor.RawTensor, input int) (*tensor.RawTensor, error) {
	self, _ := pick(a, b, input)
	var (
		g   *tensor.RawTensor
		err error
	)
	if input == 0 {
		g, err = outputGrad.Clone()
	} else {
		g, err = backend.Neg(outputGrad)
	}
	if err != nil {
		return nil, err
	}
	return reduceBroadcast(backend, g, self.Shape())
}
