package cpu

import (
	"errors"

	"github.com/born-ml/gradcore/internal/parallel"
	"github.com/born-ml/gradcore/internal/tensor"
)

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
)

func (op binaryOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	default:
		return "unknown"
	}
}

func binaryFunc[T tensor.DType](op binaryOp) func(x, y T) T {
	switch op {
	case opAdd:
		return func(x, y T) T { return x + y }
	case opSub:
		return func(x, y T) T { return x - y }
	case opMul:
		return func(x, y T) T { return x * y }
	default:
		return func(x, y T) T { return x / y }
	}
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(opAdd, a, b)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(opSub, a, b)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(opMul, a, b)
}

// Div performs element-wise division with broadcasting. Every divisor
// element is checked before anything is written; an exact zero fails with
// ErrArithmetic.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(opDiv, a, b)
}

func (cpu *CPUBackend) binary(op binaryOp, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := live(op.String(), a, b); err != nil {
		return nil, err
	}
	if err := sameDType(op.String(), a, b); err != nil {
		return nil, err
	}
	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, tensor.Errorf(tensor.ErrShape, "%s: %v", op, err)
	}
	if op == opDiv {
		if err := cpu.checkNonZero(b); err != nil {
			return nil, err
		}
	}

	av, err := tensor.Expand(a, outShape)
	if err != nil {
		return nil, err
	}
	defer av.Free()
	bv, err := tensor.Expand(b, outShape)
	if err != nil {
		return nil, err
	}
	defer bv.Free()

	out, err := tensor.NewRaw(outShape, a.DType())
	if err != nil {
		return nil, err
	}
	switch a.DType() {
	case tensor.Float32:
		zipWith(out, av, bv, binaryFunc[float32](op), cpu.cfg)
	case tensor.Float64:
		zipWith(out, av, bv, binaryFunc[float64](op), cpu.cfg)
	case tensor.Int32:
		zipWith(out, av, bv, binaryFunc[int32](op), cpu.cfg)
	}
	return out, nil
}

var errZeroDivisor = errors.New("zero divisor")

func (cpu *CPUBackend) checkNonZero(b *tensor.RawTensor) error {
	var err error
	switch b.DType() {
	case tensor.Float32:
		err = scanZero[float32](b, cpu.cfg)
	case tensor.Float64:
		err = scanZero[float64](b, cpu.cfg)
	case tensor.Int32:
		err = scanZero[int32](b, cpu.cfg)
	}
	if err != nil {
		return tensor.Errorf(tensor.ErrArithmetic, "division by zero")
	}
	return nil
}

func scanZero[T tensor.DType](t *tensor.RawTensor, cfg parallel.Config) error {
	data := tensor.Data[T](t)
	l := t.Layout()
	return parallel.ForRangeErr(t.NumElements(), func(start, end int) error {
		for i := start; i < end; i++ {
			if data[l.LinearOffset(i)] == 0 {
				return errZeroDivisor
			}
		}
		return nil
	}, cfg)
}

// Neg returns -a.
func (cpu *CPUBackend) Neg(a *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.Scale(a, -1)
}

// Scale returns a * s. For int32 tensors s is truncated toward zero.
func (cpu *CPUBackend) Scale(a *tensor.RawTensor, s float64) (*tensor.RawTensor, error) {
	if err := live("scale", a); err != nil {
		return nil, err
	}
	out, err := tensor.NewRaw(a.Shape(), a.DType())
	if err != nil {
		return nil, err
	}
	switch a.DType() {
	case tensor.Float32:
		f := float32(s)
		mapWith(out, a, func(x float32) float32 { return x * f }, cpu.cfg)
	case tensor.Float64:
		mapWith(out, a, func(x float64) float64 { return x * s }, cpu.cfg)
	case tensor.Int32:
		f := int32(s)
		mapWith(out, a, func(x int32) int32 { return x * f }, cpu.cfg)
	}
	return out, nil
}

// AddInPlace performs dst += src element-wise in logical order. dst must be
// contiguous and both tensors must hold the same number of elements.
func (cpu *CPUBackend) AddInPlace(dst, src *tensor.RawTensor) error {
	return cpu.inPlace(opAdd, dst, src)
}

// SubInPlace performs dst -= src with the same rules as AddInPlace.
func (cpu *CPUBackend) SubInPlace(dst, src *tensor.RawTensor) error {
	return cpu.inPlace(opSub, dst, src)
}

// MulInPlace performs dst *= src with the same rules as AddInPlace.
func (cpu *CPUBackend) MulInPlace(dst, src *tensor.RawTensor) error {
	return cpu.inPlace(opMul, dst, src)
}

// DivInPlace performs dst /= src with the same rules as AddInPlace. A zero
// anywhere in src fails with ErrArithmetic and leaves dst unchanged.
func (cpu *CPUBackend) DivInPlace(dst, src *tensor.RawTensor) error {
	return cpu.inPlace(opDiv, dst, src)
}

func (cpu *CPUBackend) inPlace(op binaryOp, dst, src *tensor.RawTensor) error {
	name := op.String() + "_"
	if err := live(name, dst, src); err != nil {
		return err
	}
	if err := sameDType(name, dst, src); err != nil {
		return err
	}
	if dst.NumElements() != src.NumElements() {
		return tensor.Errorf(tensor.ErrShape, "%s: element count mismatch %d vs %d (shapes %v and %v)",
			name, dst.NumElements(), src.NumElements(), dst.Shape(), src.Shape())
	}
	if !dst.IsContiguous() {
		return tensor.Errorf(tensor.ErrLayout, "%s: destination must be contiguous", name)
	}
	if op == opDiv {
		if err := cpu.checkNonZero(src); err != nil {
			return err
		}
	}
	switch dst.DType() {
	case tensor.Float32:
		zipWith(dst, dst, flatView(src, dst), binaryFunc[float32](op), cpu.cfg)
	case tensor.Float64:
		zipWith(dst, dst, flatView(src, dst), binaryFunc[float64](op), cpu.cfg)
	case tensor.Int32:
		zipWith(dst, dst, flatView(src, dst), binaryFunc[int32](op), cpu.cfg)
	}
	return nil
}

// flatView returns src viewed with like's dims when src is contiguous, so
// tensors of equal element count but different shapes line up elementwise.
// Non-contiguous sources with a different shape are materialised first.
func flatView(src, like *tensor.RawTensor) *tensor.RawTensor {
	if src.Shape().Equal(like.Shape()) {
		return src
	}
	if !src.IsContiguous() {
		c, err := tensor.Contiguous(src)
		if err != nil {
			return src
		}
		src = c
	}
	v, err := tensor.Reshape(src, like.Shape())
	if err != nil {
		return src
	}
	return v
}

// Fill sets every logical element of t to v.
func (cpu *CPUBackend) Fill(t *tensor.RawTensor, v float64) error {
	if err := live("fill", t); err != nil {
		return err
	}
	switch t.DType() {
	case tensor.Float32:
		fill(t, float32(v), cpu.cfg)
	case tensor.Float64:
		fill(t, v, cpu.cfg)
	case tensor.Int32:
		fill(t, int32(v), cpu.cfg)
	}
	return nil
}

func fill[T tensor.DType](t *tensor.RawTensor, v T, cfg parallel.Config) {
	data := tensor.Data[T](t)
	n := t.NumElements()
	if t.IsContiguous() {
		parallel.ForRange(n, func(start, end int) {
			for i := start; i < end; i++ {
				data[i] = v
			}
		}, cfg)
		return
	}
	// Broadcast views alias slots; write sequentially.
	l := t.Layout()
	for i := 0; i < n; i++ {
		data[l.LinearOffset(i)] = v
	}
}
