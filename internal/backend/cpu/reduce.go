package cpu

import (
	"github.com/born-ml/gradcore/internal/tensor"
)

// SumToShape reduces g to shape by summing over the axes along which shape
// was broadcast to g's dims. It is the adjoint of broadcasting and is used
// to bring gradients back to a parent's shape.
//
// Example:
//
//	g: [4, 3], shape: [3]    -> sum over axis 0
//	g: [4, 3], shape: [4, 1] -> sum over axis 1, keep dims
func (cpu *CPUBackend) SumToShape(g *tensor.RawTensor, shape tensor.Shape) (*tensor.RawTensor, error) {
	if err := live("sum_to_shape", g); err != nil {
		return nil, err
	}
	out, err := tensor.NewRaw(shape, g.DType())
	if err != nil {
		return nil, err
	}
	// Broadcasting out over g's dims maps every g element onto the out slot
	// it was read from.
	target, err := out.Layout().Expand(g.Shape())
	if err != nil {
		out.Free()
		return nil, err
	}

	switch g.DType() {
	case tensor.Float32:
		sumInto[float32](out, g, target)
	case tensor.Float64:
		sumInto[float64](out, g, target)
	case tensor.Int32:
		sumInto[int32](out, g, target)
	}
	return out, nil
}

// Several g elements land in the same slot, so this runs sequentially.
func sumInto[T tensor.DType](out, g *tensor.RawTensor, target tensor.Layout) {
	dst := tensor.Data[T](out)
	src := tensor.Data[T](g)
	lg := g.Layout()
	fast := lg.IsContiguous()
	for i := 0; i < g.NumElements(); i++ {
		gi := i
		if !fast {
			gi = lg.LinearOffset(i)
		}
		dst[target.LinearOffset(i)] += src[gi]
	}
}

// Sum returns the sum of all logical elements as float64.
func (cpu *CPUBackend) Sum(t *tensor.RawTensor) (float64, error) {
	if err := live("sum", t); err != nil {
		return 0, err
	}
	switch t.DType() {
	case tensor.Float32:
		return sumAll[float32](t), nil
	case tensor.Float64:
		return sumAll[float64](t), nil
	default:
		return sumAll[int32](t), nil
	}
}

func sumAll[T tensor.DType](t *tensor.RawTensor) float64 {
	data := tensor.Data[T](t)
	l := t.Layout()
	var total float64
	for i := 0; i < t.NumElements(); i++ {
		total += float64(data[l.LinearOffset(i)])
	}
	return total
}
