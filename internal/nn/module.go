// Package nn implements neural network modules on top of the autodiff core.
//
// This package provides building blocks for constructing neural networks:
//   - Module interface: forward, explicit backward and parameter access
//   - Linear: fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - Sequential: container for stacking layers
//   - MSELoss: mean squared error with its gradient
//
// Forward passes run with graph recording disabled: each module caches what
// it needs and computes parameter gradients in Backward, returning the
// gradient with respect to its input so containers can chain modules.
package nn

import (
	"errors"

	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/tensor"
)

// ErrNoForward is returned by Backward when no forward pass has been cached.
var ErrNoForward = errors.New("no forward pass cached")

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    l1,
//	    nn.NewTanh(),
//	    l2,
//	)
type Module interface {
	// Forward computes the output of the module for input and caches what
	// Backward needs.
	Forward(ctx *autodiff.Context, input *autodiff.Node) (*autodiff.Node, error)

	// Backward accumulates parameter gradients for gradOutput and returns
	// the gradient with respect to the last forward input. The caller owns
	// the returned tensor.
	Backward(gradOutput *tensor.RawTensor) (*tensor.RawTensor, error)

	// ZeroGrad clears the gradients of every parameter.
	ZeroGrad()

	// Free releases parameters and cached activations.
	Free()

	// Parameters returns all trainable parameters in a stable order.
	Parameters() []*autodiff.Node

	// Name returns the module type name, also used as the persisted tag.
	Name() string
}

// cache holds the context and tensor saved by the last forward pass.
type cache struct {
	ctx   *autodiff.Context
	saved *tensor.RawTensor
}

// store replaces the cached tensor with a private copy of t.
func (c *cache) store(ctx *autodiff.Context, t *tensor.RawTensor) error {
	saved, err := t.Clone()
	if err != nil {
		return err
	}
	c.release()
	c.ctx = ctx
	c.saved = saved
	return nil
}

func (c *cache) load(name string) (*autodiff.Context, *tensor.RawTensor, error) {
	if c.saved == nil {
		return nil, nil, tensor.Errorf(ErrNoForward, "%s: backward called before forward", name)
	}
	return c.ctx, c.saved, nil
}

func (c *cache) release() {
	c.saved.Free()
	c.saved = nil
}

func clearGrads(params []*autodiff.Node) {
	for _, p := range params {
		p.ClearGrad()
	}
}
