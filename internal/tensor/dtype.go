// Package tensor provides the core tensor types for gradcore: shapes, strided
// layouts, owning and borrowing storage, and the view engine.
package tensor

import "unsafe"

// DType is a constraint for supported tensor element types.
type DType interface {
	~int32 | ~float32 | ~float64
}

// Float is the subset of DType that can carry gradients.
type Float interface {
	~float32 | ~float64
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Int32 DataType = iota
	Float32
	Float64
)

// Size returns the byte size of the data type, or 0 for an unknown type.
func (dt DataType) Size() int {
	switch dt {
	case Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether values of this type can carry gradients.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// DataTypeOf returns the DataType matching the Go type T.
// Named types are classified by their underlying type.
func DataTypeOf[T DType]() DataType {
	var half T = 1
	half /= 2
	switch {
	case half == 0:
		return Int32
	case unsafe.Sizeof(half) == 4:
		return Float32
	default:
		return Float64
	}
}
