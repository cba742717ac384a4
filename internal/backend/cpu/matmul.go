package cpu

import (
	"github.com/born-ml/gradcore/internal/parallel"
	"github.com/born-ml/gradcore/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N)
//
// Operands are read through their strides, so transposed views need no
// copy. Output cells are computed in parallel, each with a local
// sequential accumulator.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := live("matmul", a, b); err != nil {
		return nil, err
	}
	if a.NDim() != 2 || b.NDim() != 2 {
		return nil, tensor.Errorf(tensor.ErrShape, "matmul: only 2D tensors supported, got %dD and %dD",
			a.NDim(), b.NDim())
	}
	if err := sameDType("matmul", a, b); err != nil {
		return nil, err
	}

	m, k := a.Shape()[0], a.Shape()[1]
	kAlt, n := b.Shape()[0], b.Shape()[1]
	if k != kAlt {
		return nil, tensor.Errorf(tensor.ErrShape, "matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n)
	}

	result, err := tensor.NewRaw(tensor.Shape{m, n}, a.DType())
	if err != nil {
		return nil, err
	}

	switch a.DType() {
	case tensor.Float32:
		matmul[float32](result, a, b, m, k, n, cpu.cfg)
	case tensor.Float64:
		matmul[float64](result, a, b, m, k, n, cpu.cfg)
	case tensor.Int32:
		matmul[int32](result, a, b, m, k, n, cpu.cfg)
	}
	return result, nil
}

// MatMulTransB computes a @ bᵀ for a (M, N) and b (K, N), giving (M, K).
// This is the gradient of a matmul with respect to its left operand.
func (cpu *CPUBackend) MatMulTransB(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	bt, err := tensor.Transpose(b)
	if err != nil {
		return nil, err
	}
	defer bt.Free()
	return cpu.MatMul(a, bt)
}

// MatMulTransA computes aᵀ @ b for a (M, K) and b (M, N), giving (K, N).
// This is the gradient of a matmul with respect to its right operand.
func (cpu *CPUBackend) MatMulTransA(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	at, err := tensor.Transpose(a)
	if err != nil {
		return nil, err
	}
	defer at.Free()
	return cpu.MatMul(at, b)
}

// matmul computes C[i,j] = sum_p A[i,p] * B[p,j] over strided operands.
func matmul[T tensor.DType](result, a, b *tensor.RawTensor, m, k, n int, cfg parallel.Config) {
	c := tensor.Data[T](result)
	x := tensor.Data[T](a)
	y := tensor.Data[T](b)
	as, bs := a.Strides(), b.Strides()

	parallel.ForGrid(m, n, func(i, j int) {
		var sum T
		ai := i * as[0]
		bj := j * bs[1]
		for p := 0; p < k; p++ {
			sum += x[ai+p*as[1]] * y[p*bs[0]+bj]
		}
		c[i*n+j] = sum
	}, cfg)
}
