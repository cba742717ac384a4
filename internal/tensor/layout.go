package tensor

import "fmt"

// Layout maps logical coordinates to element offsets in a storage buffer.
//
// A Layout is a value: operations return a new Layout and never mutate the
// receiver. NewLayout produces row-major strides. Permute, Expand and Narrow
// produce arbitrary strides (including 0 for broadcast axes).
type Layout struct {
	dims    Shape
	strides []int
}

// NewLayout creates a row-major layout for dims.
func NewLayout(dims Shape) (Layout, error) {
	if err := dims.Validate(); err != nil {
		return Layout{}, Errorf(ErrShape, "%v", err)
	}
	return Layout{dims: dims.Clone(), strides: dims.ComputeStrides()}, nil
}

// NewStridedLayout creates a layout with explicit strides.
func NewStridedLayout(dims Shape, strides []int) (Layout, error) {
	if err := dims.Validate(); err != nil {
		return Layout{}, Errorf(ErrShape, "%v", err)
	}
	if len(strides) != len(dims) {
		return Layout{}, Errorf(ErrLayout, "got %d strides for %d dimensions", len(strides), len(dims))
	}
	for i, s := range strides {
		if s < 0 {
			return Layout{}, Errorf(ErrLayout, "negative stride %d at axis %d", s, i)
		}
	}
	return Layout{dims: dims.Clone(), strides: append([]int(nil), strides...)}, nil
}

// Clone returns an independent copy of the layout.
func (l Layout) Clone() Layout {
	return Layout{dims: l.dims.Clone(), strides: append([]int(nil), l.strides...)}
}

// Equal reports whether two layouts have the same dims. Strides are ignored.
func (l Layout) Equal(other Layout) bool {
	return l.dims.Equal(other.dims)
}

// Dims returns the dimension sizes. The result must not be modified.
func (l Layout) Dims() Shape { return l.dims }

// Strides returns the per-axis element strides. The result must not be modified.
func (l Layout) Strides() []int { return l.strides }

// NDim returns the number of axes.
func (l Layout) NDim() int { return len(l.dims) }

// Dim returns the size of one axis.
func (l Layout) Dim(axis int) int { return l.dims[axis] }

// NumElements returns the number of logical elements.
func (l Layout) NumElements() int { return l.dims.NumElements() }

// IsContiguous reports whether the strides are row-major for the dims.
// Axes of size 1 are ignored since their stride is never used.
func (l Layout) IsContiguous() bool {
	if l.NumElements() == 0 {
		return true
	}
	expected := 1
	for i := len(l.dims) - 1; i >= 0; i-- {
		if l.dims[i] == 1 {
			continue
		}
		if l.strides[i] != expected {
			return false
		}
		expected *= l.dims[i]
	}
	return true
}

// Offset returns the element offset of coords (dot product with strides).
func (l Layout) Offset(coords []int) (int, error) {
	if len(coords) != len(l.dims) {
		return 0, Errorf(ErrShape, "got %d coordinates for %d dimensions", len(coords), len(l.dims))
	}
	off := 0
	for i, c := range coords {
		if c < 0 || c >= l.dims[i] {
			return 0, Errorf(ErrShape, "coordinate %d out of range for axis %d of size %d", c, i, l.dims[i])
		}
		off += c * l.strides[i]
	}
	return off, nil
}

// LinearOffset returns the element offset of the i-th element in logical
// row-major order. It does no bounds checking.
func (l Layout) LinearOffset(i int) int {
	off := 0
	for axis := len(l.dims) - 1; axis >= 0; axis-- {
		d := l.dims[axis]
		off += (i % d) * l.strides[axis]
		i /= d
	}
	return off
}

// Permute reorders the axes. axes must be a permutation of 0..NDim()-1.
func (l Layout) Permute(axes ...int) (Layout, error) {
	n := len(l.dims)
	if len(axes) != n {
		return Layout{}, Errorf(ErrAxis, "permute expects %d axes, got %d", n, len(axes))
	}
	seen := make([]bool, n)
	dims := make(Shape, n)
	strides := make([]int, n)
	for i, a := range axes {
		if a < 0 || a >= n {
			return Layout{}, Errorf(ErrAxis, "permute axis %d out of range [0, %d)", a, n)
		}
		if seen[a] {
			return Layout{}, Errorf(ErrAxis, "permute axis %d repeated", a)
		}
		seen[a] = true
		dims[i] = l.dims[a]
		strides[i] = l.strides[a]
	}
	return Layout{dims: dims, strides: strides}, nil
}

// Expand broadcasts the layout to target. Dimensions are aligned from the
// right; new leading axes and axes of size 1 get stride 0.
func (l Layout) Expand(target Shape) (Layout, error) {
	if len(target) < len(l.dims) {
		return Layout{}, Errorf(ErrAxis, "cannot expand %v to a shape with fewer dimensions %v", l.dims, target)
	}
	if err := target.Validate(); err != nil {
		return Layout{}, Errorf(ErrShape, "%v", err)
	}
	lead := len(target) - len(l.dims)
	strides := make([]int, len(target))
	for i := range target {
		if i < lead {
			continue
		}
		src := l.dims[i-lead]
		switch {
		case src == 1:
			strides[i] = 0
		case src == target[i]:
			strides[i] = l.strides[i-lead]
		default:
			return Layout{}, Errorf(ErrShape, "incompatible shapes for expansion: %v to %v (axis %d: %d vs %d)",
				l.dims, target, i, src, target[i])
		}
	}
	return Layout{dims: target.Clone(), strides: strides}, nil
}

// Narrow restricts axis to [start, start+length). It returns the new layout
// and the element offset of its first element relative to the receiver.
func (l Layout) Narrow(axis, start, length int) (Layout, int, error) {
	if axis < 0 || axis >= len(l.dims) {
		return Layout{}, 0, Errorf(ErrAxis, "narrow axis %d out of range [0, %d)", axis, len(l.dims))
	}
	if start < 0 || length < 0 || start+length > l.dims[axis] {
		return Layout{}, 0, Errorf(ErrShape, "narrow range [%d, %d) out of bounds for axis %d of size %d",
			start, start+length, axis, l.dims[axis])
	}
	out := l.Clone()
	out.dims[axis] = length
	return out, start * l.strides[axis], nil
}

// String implements fmt.Stringer.
func (l Layout) String() string {
	return fmt.Sprintf("Layout(dims=%v, strides=%v)", []int(l.dims), l.strides)
}

// forEach visits every logical element in row-major order, passing its
// linear index and its element offset. Offsets are advanced odometer-style.
func (l Layout) forEach(fn func(i, off int)) {
	n := l.NumElements()
	if n == 0 {
		return
	}
	ndim := len(l.dims)
	coords := make([]int, ndim)
	off := 0
	for i := 0; i < n; i++ {
		fn(i, off)
		for axis := ndim - 1; axis >= 0; axis-- {
			coords[axis]++
			off += l.strides[axis]
			if coords[axis] < l.dims[axis] {
				break
			}
			off -= coords[axis] * l.strides[axis]
			coords[axis] = 0
		}
	}
}
