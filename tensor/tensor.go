// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"io"

	"github.com/born-ml/gradcore/internal/tensor"
)

// DType is a constraint for tensor element types: int32, float32, float64.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Int32   DataType = tensor.Int32
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Layout pairs dims with per-axis strides.
type Layout = tensor.Layout

// RawTensor is a typed, strided view over shared storage.
type RawTensor = tensor.RawTensor

// ErrorHandler receives the message of every reported error.
type ErrorHandler = tensor.ErrorHandler

// Sentinel errors.
var (
	ErrShape      = tensor.ErrShape
	ErrLayout     = tensor.ErrLayout
	ErrAxis       = tensor.ErrAxis
	ErrArithmetic = tensor.ErrArithmetic
	ErrAllocation = tensor.ErrAllocation
	ErrDType      = tensor.ErrDType
	ErrReleased   = tensor.ErrReleased
)

// SetErrorHandler installs h and returns the previous handler. A nil h
// restores the default, which logs and exits the process.
func SetErrorHandler(h ErrorHandler) ErrorHandler {
	return tensor.SetErrorHandler(h)
}

// NewLayout returns a row-major layout for dims.
func NewLayout(dims Shape) (Layout, error) {
	return tensor.NewLayout(dims)
}

// NewRaw allocates a zero-filled contiguous tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a tensor holding a copy of data.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromBytes creates a tensor holding a copy of buf in native byte order.
func FromBytes(buf []byte, shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.FromBytes(buf, shape, dtype)
}

// At returns the element at coords.
func At[T DType](r *RawTensor, coords ...int) (T, error) {
	return tensor.At[T](r, coords...)
}

// Set writes v at coords.
func Set[T DType](r *RawTensor, v T, coords ...int) error {
	return tensor.Set(r, v, coords...)
}

// ToSlice copies the logical elements in row-major order.
func ToSlice[T DType](r *RawTensor) ([]T, error) {
	return tensor.ToSlice[T](r)
}

// Reshape returns a view of a contiguous tensor with a new shape.
func Reshape(t *RawTensor, shape Shape) (*RawTensor, error) {
	return tensor.Reshape(t, shape)
}

// Permute returns a view with axes reordered.
func Permute(t *RawTensor, axes ...int) (*RawTensor, error) {
	return tensor.Permute(t, axes...)
}

// Transpose returns a view of a 2-D tensor with its axes swapped.
func Transpose(t *RawTensor) (*RawTensor, error) {
	return tensor.Transpose(t)
}

// Expand returns a broadcast view of t with the target shape.
func Expand(t *RawTensor, target Shape) (*RawTensor, error) {
	return tensor.Expand(t, target)
}

// Narrow returns a view restricted to [start, start+length) along axis.
func Narrow(t *RawTensor, axis, start, length int) (*RawTensor, error) {
	return tensor.Narrow(t, axis, start, length)
}

// Contiguous returns a new owning row-major copy of t.
func Contiguous(t *RawTensor) (*RawTensor, error) {
	return tensor.Contiguous(t)
}

// IsContiguous reports whether t's layout is row-major.
func IsContiguous(t *RawTensor) bool {
	return tensor.IsContiguous(t)
}

// BroadcastShapes returns the broadcast of a and b and whether either
// operand needs expanding.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// Fprint writes t to w as nested rows with a shape trailer.
func Fprint(w io.Writer, t *RawTensor) error {
	return tensor.Fprint(w, t)
}

// Format returns the text Fprint would write.
func Format(t *RawTensor) (string, error) {
	return tensor.Format(t)
}

// NewStridedLayout returns a layout with explicit strides.
func NewStridedLayout(dims Shape, strides []int) (Layout, error) {
	return tensor.NewStridedLayout(dims, strides)
}

// DataTypeOf returns the DataType for T.
func DataTypeOf[T DType]() DataType {
	return tensor.DataTypeOf[T]()
}

// Data returns the storage of r typed as T, starting at the view offset.
// It panics when T does not match r.DType().
func Data[T DType](r *RawTensor) []T {
	return tensor.Data[T](r)
}
