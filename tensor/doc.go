// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides strided tensors with borrowing views.
//
// # Overview
//
// A RawTensor is a typed buffer (float32, float64 or int32) plus a layout
// of dims and strides. Reshape, Permute, Transpose, Expand and Narrow
// return views that share the owner's storage; Contiguous always copies.
// Freeing the owner releases the storage and every view of it.
//
// # Basic Usage
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	xt, _ := tensor.Transpose(x) // view, shape [3, 2]
//	v, _ := tensor.At[float32](xt, 2, 1) // 6
//	fmt.Print(tensor.Format(xt))
//
// # Errors
//
// Validation failures call the process-wide error handler once and return
// an error wrapping one of the sentinel errors (ErrShape, ErrLayout, ...).
// The default handler logs and exits; install another with SetErrorHandler.
package tensor
