package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeq(t *testing.T, shape Shape) *RawTensor {
	t.Helper()
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = float32(i + 1)
	}
	raw, err := FromSlice(data, shape)
	require.NoError(t, err)
	return raw
}

func TestReshapeContiguous(t *testing.T) {
	src := newSeq(t, Shape{2, 3})

	r, err := Reshape(src, Shape{3, 2})
	require.NoError(t, err)
	assert.False(t, r.IsOwner())
	assert.True(t, r.SharesStorage(src))
	assert.Equal(t, []int{2, 1}, r.Strides())

	v, err := At[float32](r, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(6), v)
}

func TestReshapeErrors(t *testing.T) {
	msgs := recordErrors(t)
	src := newSeq(t, Shape{2, 3})

	_, err := Reshape(src, Shape{4, 2})
	assert.True(t, errors.Is(err, ErrShape))

	p, err := Permute(src, 1, 0)
	require.NoError(t, err)
	_, err = Reshape(p, Shape{6})
	assert.True(t, errors.Is(err, ErrLayout))

	assert.Len(t, *msgs, 2)
	assert.Equal(t, Shape{2, 3}, src.Shape())
}

func TestReshapeAfterContiguous(t *testing.T) {
	recordErrors(t)
	src := newSeq(t, Shape{2, 3})

	p, err := Permute(src, 1, 0)
	require.NoError(t, err)
	_, err = Reshape(p, Shape{6})
	require.Error(t, err)

	c, err := Contiguous(p)
	require.NoError(t, err)
	r, err := Reshape(c, Shape{6})
	require.NoError(t, err)

	got, err := ToSlice[float32](r)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, got)
}

func TestContiguousTransposed(t *testing.T) {
	src := newSeq(t, Shape{2, 3})

	tr, err := Transpose(src)
	require.NoError(t, err)
	assert.False(t, IsContiguous(tr))

	c, err := Contiguous(tr)
	require.NoError(t, err)
	assert.True(t, IsContiguous(c))
	assert.True(t, c.IsOwner())
	assert.Equal(t, Shape{3, 2}, c.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, c.AsFloat32()[:6])
}

func TestContiguousAlreadyContiguousCopies(t *testing.T) {
	src := newSeq(t, Shape{4})

	c, err := Contiguous(src)
	require.NoError(t, err)
	assert.False(t, c.SharesStorage(src))

	c.AsFloat32()[0] = -1
	assert.Equal(t, float32(1), src.AsFloat32()[0])
}

func TestExpandView(t *testing.T) {
	src := newSeq(t, Shape{3})

	e, err := Expand(src, Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, e.Strides())
	assert.True(t, e.SharesStorage(src))

	got, err := ToSlice[float32](e)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 1, 2, 3}, got)
}

func TestExpandViewErrors(t *testing.T) {
	msgs := recordErrors(t)
	src := newSeq(t, Shape{2, 3})

	_, err := Expand(src, Shape{6})
	assert.True(t, errors.Is(err, ErrAxis))
	_, err = Expand(src, Shape{2, 2})
	assert.True(t, errors.Is(err, ErrShape))
	assert.Len(t, *msgs, 2)
}

func TestPermuteViewWritesThrough(t *testing.T) {
	src := newSeq(t, Shape{2, 3})

	p, err := Permute(src, 1, 0)
	require.NoError(t, err)
	require.NoError(t, Set[float32](p, 50, 2, 1))

	v, err := At[float32](src, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(50), v)
}

func TestTransposeRequires2D(t *testing.T) {
	msgs := recordErrors(t)
	src := newSeq(t, Shape{2, 3, 4})

	_, err := Transpose(src)
	assert.True(t, errors.Is(err, ErrAxis))
	assert.Len(t, *msgs, 1)
}

func TestNarrowView(t *testing.T) {
	src := newSeq(t, Shape{4, 2})

	n, err := Narrow(src, 0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n.Offset())
	assert.True(t, n.IsContiguous())

	got, err := ToSlice[float32](n)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4, 5, 6}, got)

	col, err := Narrow(src, 1, 1, 1)
	require.NoError(t, err)
	got, err = ToSlice[float32](col)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4, 6, 8}, got)

	c, err := col.Clone()
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4, 6, 8}, c.AsFloat32())
}

func TestNarrowThenContiguousClone(t *testing.T) {
	src := newSeq(t, Shape{3, 2})

	n, err := Narrow(src, 0, 2, 1)
	require.NoError(t, err)
	c, err := n.Clone()
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 6}, c.AsFloat32())
}
