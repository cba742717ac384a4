package nn

import (
	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/tensor"
)

// activation is the shared machinery of the element-wise activations.
//
// keepOutput selects what is cached for backward: the forward output when
// the derivative is cheaper to express through it (sigmoid, tanh),
// otherwise the forward input.
type activation struct {
	name       string
	keepOutput bool
	forward    func(b *cpu.CPUBackend, x *tensor.RawTensor) (*tensor.RawTensor, error)
	backward   func(b *cpu.CPUBackend, saved, grad *tensor.RawTensor) (*tensor.RawTensor, error)

	cache cache
}

func (a *activation) Forward(ctx *autodiff.Context, input *autodiff.Node) (*autodiff.Node, error) {
	out, err := a.forward(ctx.Backend(), input.Value())
	if err != nil {
		return nil, err
	}
	saved := input.Value()
	if a.keepOutput {
		saved = out
	}
	if err := a.cache.store(ctx, saved); err != nil {
		out.Free()
		return nil, err
	}
	return autodiff.NewLeaf(out), nil
}

func (a *activation) Backward(gradOutput *tensor.RawTensor) (*tensor.RawTensor, error) {
	ctx, saved, err := a.cache.load(a.name)
	if err != nil {
		return nil, err
	}
	return a.backward(ctx.Backend(), saved, gradOutput)
}

// ZeroGrad is a no-op: activations have no parameters.
func (a *activation) ZeroGrad() {}

// Free releases the cached activation.
func (a *activation) Free() { a.cache.release() }

// Parameters returns nil.
func (a *activation) Parameters() []*autodiff.Node { return nil }

func (a *activation) Name() string { return a.name }

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU struct{ activation }

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{activation{
		name:     "ReLU",
		forward:  (*cpu.CPUBackend).ReLU,
		backward: (*cpu.CPUBackend).ReLUBackward,
	}}
}

// Sigmoid is a sigmoid activation module.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
type Sigmoid struct{ activation }

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{activation{
		name:       "Sigmoid",
		keepOutput: true,
		forward:    (*cpu.CPUBackend).Sigmoid,
		backward:   (*cpu.CPUBackend).SigmoidBackward,
	}}
}

// Tanh is a hyperbolic tangent activation module.
//
// Applies the element-wise function: tanh(x) = (exp(x) - exp(-x)) / (exp(x) + exp(-x))
type Tanh struct{ activation }

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{activation{
		name:       "Tanh",
		keepOutput: true,
		forward:    (*cpu.CPUBackend).Tanh,
		backward:   (*cpu.CPUBackend).TanhBackward,
	}}
}
