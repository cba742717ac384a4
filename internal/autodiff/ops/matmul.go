package ops

import (
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/tensor"
)

// MatMul is the gradient rule of 2-D matrix multiplication C = A @ B with
// A (M, K), B (K, N):
//
//	dA[m,k] = sum_n grad[m,n] * B[k,n]   (grad @ Bᵀ)
//	dB[k,n] = sum_m grad[m,n] * A[m,k]   (Aᵀ @ grad)
type MatMul struct{}

// Name returns "matmul".
func (MatMul) Name() string { return "matmul" }

// Grad computes the matmul gradient for one input.
func (MatMul) Grad(backend *cpu.CPUBackend, outputGrad, a, b *tensor.RawTensor, input int) (*tensor.RawTensor, error) {
	if input == 0 {
		return backend.MatMulTransB(outputGrad, b)
	}
	return backend.MatMulTransA(a, outputGrad)
}
