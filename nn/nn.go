// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network modules with explicit backward passes.
//
// # Overview
//
// Every Module caches what its backward pass needs during Forward and
// returns the input gradient from Backward, accumulating parameter
// gradients along the way. Forward runs with recording disabled, so no
// autodiff graph is built for module internals.
//
// # Basic Usage
//
//	model := nn.NewSequential(l1, nn.NewTanh(), l2)
//	out, _ := model.Forward(ctx, x)
//	loss, grad, _ := nn.MSELoss(ctx, out, y)
//	dx, _ := model.Backward(grad)
package nn

import (
	"math/rand"

	"github.com/born-ml/gradcore/autodiff"
	"github.com/born-ml/gradcore/internal/nn"
	"github.com/born-ml/gradcore/tensor"
)

// Module is the interface implemented by every layer.
type Module = nn.Module

// Linear is a fully connected layer: y = x @ Wᵀ + b.
type Linear = nn.Linear

// LinearConfig configures NewLinear.
type LinearConfig = nn.LinearConfig

// Init selects a weight initialization scheme.
type Init = nn.Init

// Initialization schemes.
const (
	InitUniform = nn.InitUniform
	InitXavier  = nn.InitXavier
)

// Activation modules.
type (
	ReLU    = nn.ReLU
	Sigmoid = nn.Sigmoid
	Tanh    = nn.Tanh
)

// Sequential chains modules.
type Sequential = nn.Sequential

// ErrNoForward is returned by Backward before any Forward call.
var ErrNoForward = nn.ErrNoForward

// DefaultLinearConfig returns a config with bias and uniform init.
func DefaultLinearConfig() LinearConfig {
	return nn.DefaultLinearConfig()
}

// NewLinear creates a Linear layer with in input and out output features.
func NewLinear(in, out int, cfg LinearConfig) (*Linear, error) {
	return nn.NewLinear(in, out, cfg)
}

// NewReLU creates a ReLU activation.
func NewReLU() *ReLU { return nn.NewReLU() }

// NewSigmoid creates a Sigmoid activation.
func NewSigmoid() *Sigmoid { return nn.NewSigmoid() }

// NewTanh creates a Tanh activation.
func NewTanh() *Tanh { return nn.NewTanh() }

// NewSequential chains modules in order.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// MSELoss returns the mean squared error and its gradient with respect to
// predictions.
func MSELoss(ctx *autodiff.Context, predictions, targets *autodiff.Node) (float64, *tensor.RawTensor, error) {
	return nn.MSELoss(ctx, predictions, targets)
}

// Uniform returns a float32 tensor with values uniform in [-scale/2, scale/2).
func Uniform(shape tensor.Shape, scale float64, rng *rand.Rand) (*tensor.RawTensor, error) {
	return nn.Uniform(shape, scale, rng)
}

// Xavier returns a float32 tensor with Glorot uniform values.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) (*tensor.RawTensor, error) {
	return nn.Xavier(fanIn, fanOut, shape, rng)
}

// Zeros returns a zero-filled float32 tensor.
func Zeros(shape tensor.Shape) (*tensor.RawTensor, error) {
	return nn.Zeros(shape)
}

// Ones returns a float32 tensor filled with 1.
func Ones(shape tensor.Shape) (*tensor.RawTensor, error) {
	return nn.Ones(shape)
}
