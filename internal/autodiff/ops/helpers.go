package ops

import (
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
//
// grad is consumed: it is either returned or freed.
func reduceBroadcast(backend *cpu.CPUBackend, grad *tensor.RawTensor, target tensor.Shape) (*tensor.RawTensor, error) {
	if grad.Shape().Equal(target) {
		return grad, nil
	}
	defer grad.Free()
	return backend.SumToShape(grad, target)
}

// pick returns the selected input and the other one.
func pick(a, b *tensor.RawTensor, input int) (self, other *tensor.RawTensor) {
	if input == 0 {
		return a, b
	}
	return b, a
}
