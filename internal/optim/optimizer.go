// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum and weight decay
//   - Adam: Adaptive Moment Estimation
//
// Optimizers hold the parameter nodes of a model and read the gradients
// accumulated on them. Step updates every parameter that has a gradient
// and then clears that gradient.
//
// Example usage:
//
//	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
//
//	for epoch := range epochs {
//	    out, _ := model.Forward(ctx, x)
//	    _, grad, _ := nn.MSELoss(ctx, out, y)
//	    _, _ = model.Backward(grad)
//	    _ = opt.Step()
//	}
package optim

import (
	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/parallel"
	"github.com/born-ml/gradcore/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters that have a gradient
	// and clears those gradients.
	Step() error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float32

	// SetLR updates the learning rate, e.g. for scheduling.
	SetLR(lr float32)
}

// update walks the parameters that carry a gradient, handing fn the
// parameter index and the parameter and gradient data, and clears each
// gradient afterwards.
func update(params []*autodiff.Node, cfg parallel.Config, fn func(i int, param, grad []float32, cfg parallel.Config)) error {
	for i, p := range params {
		if p == nil || !p.RequiresGrad() {
			continue
		}
		grad := p.Grad()
		if grad == nil {
			continue
		}
		value := p.Value()
		if err := value.Live(); err != nil {
			return err
		}
		if p.DType() != tensor.Float32 {
			return tensor.Errorf(tensor.ErrDType, "optimizer: parameter %d is %s, want float32", i, p.DType())
		}
		if !value.IsContiguous() {
			return tensor.Errorf(tensor.ErrLayout, "optimizer: parameter %d must be contiguous", i)
		}
		n := value.NumElements()
		fn(i, value.AsFloat32()[:n], grad.AsFloat32()[:n], cfg)
		p.ClearGrad()
	}
	return nil
}

func clearGrads(params []*autodiff.Node) {
	for _, p := range params {
		if p != nil {
			p.ClearGrad()
		}
	}
}
