// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend.
//
// Element-wise kernels and matrix multiplication are split across
// goroutines through a parallel.Config; small inputs run inline.
package cpu

import (
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/parallel"
)

// Backend is the CPU backend.
type Backend = cpu.CPUBackend

// Config controls how kernels are split across goroutines.
type Config = parallel.Config

// New returns a backend using all available cores.
func New() *Backend {
	return cpu.New()
}

// NewWithConfig returns a backend with an explicit parallel configuration.
func NewWithConfig(cfg Config) *Backend {
	return cpu.NewWithConfig(cfg)
}

// DefaultConfig returns the configuration New uses.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// SequentialConfig returns a configuration that runs every kernel on the
// calling goroutine.
func SequentialConfig() Config {
	return parallel.Sequential()
}
