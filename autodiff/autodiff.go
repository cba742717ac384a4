// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff records operations between tensors and propagates
// gradients back to the leaves that require them.
//
// # Overview
//
// A Context owns a CPU backend, a grad-enabled flag and a retain-graph
// flag. Arithmetic on the context (Add, Sub, Mul, Div, MatMul) produces a
// Node that remembers its operator and parents when recording is enabled
// and at least one input requires gradients.
//
// Backward seeds the root with ones and applies the root's own gradient
// rule, accumulating into its direct parents. BackwardGraph walks the full
// recorded graph in reverse topological order.
//
// # Basic Usage
//
//	ctx := autodiff.NewContext(nil)
//	a := autodiff.NewLeaf(x)
//	_ = ctx.SetRequiresGrad(a, true)
//	y, _ := ctx.Mul(a, a)
//	_ = ctx.BackwardGraph(y) // a.Grad() == 2*x
package autodiff

import (
	"github.com/born-ml/gradcore/backend/cpu"
	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/tensor"
)

// Context holds recording state and the backend used for every operation.
type Context = autodiff.Context

// Node is a tensor participating in gradient recording.
type Node = autodiff.Node

// Op identifies the operator that produced a node.
type Op = autodiff.Op

// Recorded operators.
const (
	OpNone   = autodiff.OpNone
	OpAdd    = autodiff.OpAdd
	OpSub    = autodiff.OpSub
	OpMul    = autodiff.OpMul
	OpDiv    = autodiff.OpDiv
	OpMatMul = autodiff.OpMatMul
)

// ErrUnknownOp is returned when an operator has no gradient rule.
var ErrUnknownOp = autodiff.ErrUnknownOp

// NewContext returns a context with gradients enabled. A nil backend
// selects cpu.New().
func NewContext(backend *cpu.Backend) *Context {
	return autodiff.NewContext(backend)
}

// Default returns the process-wide context.
func Default() *Context {
	return autodiff.Default()
}

// NewLeaf wraps value in a leaf node that does not require gradients.
// The node takes ownership of value.
func NewLeaf(value *tensor.RawTensor) *Node {
	return autodiff.NewLeaf(value)
}
