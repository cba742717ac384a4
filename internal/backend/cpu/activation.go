package cpu

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/born-ml/gradcore/internal/tensor"
)

// ReLU computes max(0, x).
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary("relu", x,
		func(v float32) float32 { return max(v, 0) },
		func(v float64) float64 { return max(v, 0) })
}

// Sigmoid computes 1 / (1 + exp(-x)).
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary("sigmoid", x,
		func(v float32) float32 { return 1 / (1 + math32.Exp(-v)) },
		func(v float64) float64 { return 1 / (1 + math.Exp(-v)) })
}

// Tanh computes the hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary("tanh", x, math32.Tanh, math.Tanh)
}

// ReLUBackward computes grad * (x > 0), where x is the forward input.
func (cpu *CPUBackend) ReLUBackward(x, grad *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.gated("relu_backward", x, grad,
		func(v, g float32) float32 {
			if v > 0 {
				return g
			}
			return 0
		},
		func(v, g float64) float64 {
			if v > 0 {
				return g
			}
			return 0
		})
}

// SigmoidBackward computes grad * y * (1 - y), where y is the forward output.
func (cpu *CPUBackend) SigmoidBackward(y, grad *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.gated("sigmoid_backward", y, grad,
		func(v, g float32) float32 { return g * v * (1 - v) },
		func(v, g float64) float64 { return g * v * (1 - v) })
}

// TanhBackward computes grad * (1 - y²), where y is the forward output.
func (cpu *CPUBackend) TanhBackward(y, grad *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.gated("tanh_backward", y, grad,
		func(v, g float32) float32 { return g * (1 - v*v) },
		func(v, g float64) float64 { return g * (1 - v*v) })
}

func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, f32 func(float32) float32, f64 func(float64) float64) (*tensor.RawTensor, error) {
	if err := live(op, x); err != nil {
		return nil, err
	}
	if err := requireFloat(op, x); err != nil {
		return nil, err
	}
	out, err := tensor.NewRaw(x.Shape(), x.DType())
	if err != nil {
		return nil, err
	}
	if x.DType() == tensor.Float32 {
		mapWith(out, x, f32, cpu.cfg)
	} else {
		mapWith(out, x, f64, cpu.cfg)
	}
	return out, nil
}

func (cpu *CPUBackend) gated(op string, v, grad *tensor.RawTensor, f32 func(v, g float32) float32, f64 func(v, g float64) float64) (*tensor.RawTensor, error) {
	if err := live(op, v, grad); err != nil {
		return nil, err
	}
	if err := requireFloat(op, v); err != nil {
		return nil, err
	}
	if err := sameDType(op, v, grad); err != nil {
		return nil, err
	}
	if !v.Shape().Equal(grad.Shape()) {
		return nil, tensor.Errorf(tensor.ErrShape, "%s: shape mismatch %v vs %v", op, v.Shape(), grad.Shape())
	}
	out, err := tensor.NewRaw(v.Shape(), v.DType())
	if err != nil {
		return nil, err
	}
	if v.DType() == tensor.Float32 {
		zipWith(out, v, grad, f32, cpu.cfg)
	} else {
		zipWith(out, v, grad, f64, cpu.cfg)
	}
	return out, nil
}
