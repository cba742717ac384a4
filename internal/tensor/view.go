package tensor

// Reshape returns a borrowing view of t with new dims. t must be contiguous
// and the element count must not change.
func Reshape(t *RawTensor, shape Shape) (*RawTensor, error) {
	if err := t.Live(); err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, Errorf(ErrShape, "%v", err)
	}
	if shape.NumElements() != t.NumElements() {
		return nil, Errorf(ErrShape, "cannot reshape %v to %v: total number of elements must remain the same",
			t.Shape(), shape)
	}
	if !t.IsContiguous() {
		return nil, Errorf(ErrLayout, "reshape requires a contiguous tensor, call Contiguous first")
	}
	layout, err := NewLayout(shape)
	if err != nil {
		return nil, err
	}
	return newView(t, layout, t.offset), nil
}

// Permute returns a borrowing view of t with its axes reordered.
func Permute(t *RawTensor, axes ...int) (*RawTensor, error) {
	if err := t.Live(); err != nil {
		return nil, err
	}
	layout, err := t.layout.Permute(axes...)
	if err != nil {
		return nil, err
	}
	return newView(t, layout, t.offset), nil
}

// Transpose swaps the two axes of a 2-D tensor.
func Transpose(t *RawTensor) (*RawTensor, error) {
	if t.NDim() != 2 {
		return nil, Errorf(ErrAxis, "transpose expects a 2-D tensor, got %d dimensions", t.NDim())
	}
	return Permute(t, 1, 0)
}

// Expand returns a borrowing broadcast view of t with the target dims.
func Expand(t *RawTensor, target Shape) (*RawTensor, error) {
	if err := t.Live(); err != nil {
		return nil, err
	}
	layout, err := t.layout.Expand(target)
	if err != nil {
		return nil, err
	}
	return newView(t, layout, t.offset), nil
}

// Narrow returns a borrowing view of t restricted to [start, start+length)
// along axis.
func Narrow(t *RawTensor, axis, start, length int) (*RawTensor, error) {
	if err := t.Live(); err != nil {
		return nil, err
	}
	layout, shift, err := t.layout.Narrow(axis, start, length)
	if err != nil {
		return nil, err
	}
	return newView(t, layout, t.offset+shift), nil
}

// IsContiguous reports whether t's layout is row-major.
func IsContiguous(t *RawTensor) bool {
	return t.IsContiguous()
}

// Contiguous returns a new owning row-major copy of t. The copy is made even
// when t is already contiguous so the result never aliases t.
func Contiguous(t *RawTensor) (*RawTensor, error) {
	return t.Clone()
}
