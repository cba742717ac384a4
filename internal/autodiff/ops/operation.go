// Package ops defines the gradient rules of the differentiable operators.
//
// Each rule computes the gradient flowing from an operator's output into one
// of its two inputs:
//   - Add: d(a+b)/da = 1, d(a+b)/db = 1
//   - Sub: d(a-b)/da = 1, d(a-b)/db = -1
//   - Mul: d(a*b)/da = b, d(a*b)/db = a
//   - Div: d(a/b)/da = 1/b, d(a/b)/db = -a/b²
//   - MatMul: d(A@B)/dA = grad@Bᵀ, d(A@B)/dB = Aᵀ@grad
//
// Gradients of broadcast inputs are summed back to the input's shape.
package ops

import (
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/tensor"
)

// Rule computes the gradient of a binary operator with respect to one input.
type Rule interface {
	// Name returns the operator name used in logs and errors.
	Name() string

	// Grad returns dL/d(input) given dL/d(output), where input is 0 for a
	// and 1 for b. The result has the shape of the selected input and is
	// owned by the caller.
	Grad(backend *cpu.CPUBackend, outputGrad, a, b *tensor.RawTensor, input int) (*tensor.RawTensor, error)
}
