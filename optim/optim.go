// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers that update module parameters in place.
//
// # Basic Usage
//
//	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
//	for range epochs {
//		// forward, loss, backward
//		_ = opt.Step() // updates and clears gradients
//	}
package optim

import (
	"github.com/born-ml/gradcore/autodiff"
	"github.com/born-ml/gradcore/internal/optim"
)

// Optimizer updates parameters from their accumulated gradients.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig configures NewSGD.
type SGDConfig = optim.SGDConfig

// Adam is the Adam optimizer.
type Adam = optim.Adam

// AdamConfig configures NewAdam.
type AdamConfig = optim.AdamConfig

// NewSGD creates an SGD optimizer over params.
func NewSGD(params []*autodiff.Node, cfg SGDConfig) *SGD {
	return optim.NewSGD(params, cfg)
}

// NewAdam creates an Adam optimizer over params.
func NewAdam(params []*autodiff.Node, cfg AdamConfig) *Adam {
	return optim.NewAdam(params, cfg)
}
