package tensor

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// storage is a byte buffer shared between an owning RawTensor and its views.
type storage struct {
	data     []byte
	released atomic.Bool
}

func newStorage(size int) *storage {
	return &storage{data: make([]byte, size)}
}

// RawTensor is the low-level tensor representation: a strided Layout over a
// shared storage buffer.
//
// Exactly one RawTensor owns a storage buffer. Views created by the view
// engine borrow it and own only their Layout. Freeing the owner releases the
// storage; any later data access through one of its views fails with
// ErrReleased.
type RawTensor struct {
	store  *storage
	layout Layout
	dtype  DataType
	offset int // in elements
	owns   bool
	freed  bool
}

// NewRaw creates a zero-filled owning tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if dtype.Size() == 0 {
		return nil, Errorf(ErrAllocation, "unknown dtype %d", int(dtype))
	}
	layout, err := NewLayout(shape)
	if err != nil {
		return nil, err
	}
	return &RawTensor{
		store:  newStorage(layout.NumElements() * dtype.Size()),
		layout: layout,
		dtype:  dtype,
		owns:   true,
	}, nil
}

// FromSlice creates an owning tensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, Errorf(ErrShape, "%v", err)
	}
	if len(data) != shape.NumElements() {
		return nil, Errorf(ErrShape, "data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	raw, err := NewRaw(shape, DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(typedSlice[T](raw.store.data, 0), data)
	return raw, nil
}

// FromBytes creates an owning tensor holding a copy of buf, interpreted as
// row-major elements of dtype in native byte order.
func FromBytes(buf []byte, shape Shape, dtype DataType) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(buf) != len(raw.store.data) {
		raw.Free()
		return nil, Errorf(ErrShape, "got %d bytes for shape %v of %s (want %d)",
			len(buf), shape, dtype, shape.NumElements()*dtype.Size())
	}
	copy(raw.store.data, buf)
	return raw, nil
}

// newView creates a tensor borrowing src's storage with its own layout.
func newView(src *RawTensor, layout Layout, offset int) *RawTensor {
	return &RawTensor{
		store:  src.store,
		layout: layout,
		dtype:  src.dtype,
		offset: offset,
	}
}

// Live returns ErrReleased if the tensor was freed or its storage was
// released by the owner.
func (r *RawTensor) Live() error {
	if r.freed {
		return Errorf(ErrReleased, "tensor has been freed")
	}
	if r.store.released.Load() {
		return Errorf(ErrReleased, "view outlived the owner of its storage")
	}
	return nil
}

// Clone returns a deep copy in a new owning buffer. Non-contiguous sources
// are materialised in row-major order.
func (r *RawTensor) Clone() (*RawTensor, error) {
	if err := r.Live(); err != nil {
		return nil, err
	}
	out, err := NewRaw(r.layout.dims, r.dtype)
	if err != nil {
		return nil, err
	}
	size := r.dtype.Size()
	if r.layout.IsContiguous() {
		start := r.offset * size
		copy(out.store.data, r.store.data[start:start+len(out.store.data)])
		return out, nil
	}
	src := r.store.data
	dst := out.store.data
	r.layout.forEach(func(i, off int) {
		s := (r.offset + off) * size
		copy(dst[i*size:(i+1)*size], src[s:s+size])
	})
	return out, nil
}

// Free releases the storage if r owns it and drops the layout. Freeing a view
// leaves the owner's storage intact. Free is idempotent.
func (r *RawTensor) Free() {
	if r == nil || r.freed {
		return
	}
	if r.owns {
		r.store.released.Store(true)
		r.store.data = nil
	}
	r.layout = Layout{}
	r.freed = true
}

// ByteOffset returns the byte offset of coords from the start of the storage
// buffer. It is O(ndim) and meant for single-element access.
func (r *RawTensor) ByteOffset(coords ...int) (int, error) {
	if err := r.Live(); err != nil {
		return 0, err
	}
	off, err := r.layout.Offset(coords)
	if err != nil {
		return 0, err
	}
	return (r.offset + off) * r.dtype.Size(), nil
}

// Shape returns the tensor's dimensions.
func (r *RawTensor) Shape() Shape { return r.layout.dims }

// Layout returns the tensor's layout.
func (r *RawTensor) Layout() Layout { return r.layout }

// Strides returns the tensor's element strides.
func (r *RawTensor) Strides() []int { return r.layout.strides }

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType { return r.dtype }

// NDim returns the number of axes.
func (r *RawTensor) NDim() int { return r.layout.NDim() }

// NumElements returns the logical element count.
func (r *RawTensor) NumElements() int { return r.layout.NumElements() }

// ByteSize returns the logical size in bytes.
func (r *RawTensor) ByteSize() int { return r.NumElements() * r.dtype.Size() }

// IsOwner reports whether r owns its storage.
func (r *RawTensor) IsOwner() bool { return r.owns }

// IsContiguous reports whether the layout is row-major.
func (r *RawTensor) IsContiguous() bool { return r.layout.IsContiguous() }

// Offset returns the element offset of the first element in the storage.
func (r *RawTensor) Offset() int { return r.offset }

// SharesStorage reports whether r and other reference the same buffer.
func (r *RawTensor) SharesStorage(other *RawTensor) bool {
	return r.store == other.store
}

// Bytes returns the whole storage buffer, or nil once it has been released.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Bytes() []byte {
	if r.store.released.Load() {
		return nil
	}
	return r.store.data
}

// AsFloat32 interprets the storage as []float32 starting at the tensor's
// first element. Index it through the layout unless IsContiguous.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 { return Data[float32](r) }

// AsFloat64 interprets the storage as []float64 starting at the tensor's
// first element. Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 { return Data[float64](r) }

// AsInt32 interprets the storage as []int32 starting at the tensor's first
// element. Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 { return Data[int32](r) }

// Data interprets the storage as []T starting at the tensor's first element.
// The slice extends to the end of the physical buffer. It returns nil once
// the storage has been released. Panics if T does not match the dtype.
func Data[T DType](r *RawTensor) []T {
	if dt := DataTypeOf[T](); dt != r.dtype {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, dt))
	}
	if r.store.released.Load() {
		return nil
	}
	return typedSlice[T](r.store.data, r.offset)
}

func typedSlice[T DType](buf []byte, offset int) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	n := len(buf)/size - offset
	if n <= 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the buffer size
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[offset*size])), n)
}

func checkDType[T DType](r *RawTensor) error {
	if dt := DataTypeOf[T](); dt != r.dtype {
		return Errorf(ErrDType, "tensor dtype is %s, not %s", r.dtype, dt)
	}
	return nil
}

// At returns the element at coords.
func At[T DType](r *RawTensor, coords ...int) (T, error) {
	var zero T
	if err := checkDType[T](r); err != nil {
		return zero, err
	}
	if err := r.Live(); err != nil {
		return zero, err
	}
	off, err := r.layout.Offset(coords)
	if err != nil {
		return zero, err
	}
	return typedSlice[T](r.store.data, r.offset)[off], nil
}

// Set writes v at coords. Writing through a broadcast view writes the single
// shared element.
func Set[T DType](r *RawTensor, v T, coords ...int) error {
	if err := checkDType[T](r); err != nil {
		return err
	}
	if err := r.Live(); err != nil {
		return err
	}
	off, err := r.layout.Offset(coords)
	if err != nil {
		return err
	}
	typedSlice[T](r.store.data, r.offset)[off] = v
	return nil
}

// ToSlice copies the logical elements into a new slice in row-major order.
func ToSlice[T DType](r *RawTensor) ([]T, error) {
	if err := checkDType[T](r); err != nil {
		return nil, err
	}
	if err := r.Live(); err != nil {
		return nil, err
	}
	out := make([]T, r.NumElements())
	src := typedSlice[T](r.store.data, r.offset)
	if r.layout.IsContiguous() {
		copy(out, src)
		return out, nil
	}
	r.layout.forEach(func(i, off int) {
		out[i] = src[off]
	})
	return out, nil
}

// String implements fmt.Stringer.
func (r *RawTensor) String() string {
	if r.freed {
		return "RawTensor(freed)"
	}
	return fmt.Sprintf("RawTensor(shape=%v, strides=%v, dtype=%s, offset=%d, owner=%t)",
		[]int(r.layout.dims), r.layout.strides, r.dtype, r.offset, r.owns)
}
