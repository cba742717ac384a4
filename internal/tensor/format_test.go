package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*RawTensor, error)
		want  string
	}{
		{
			name:  "integral matrix",
			build: func() (*RawTensor, error) { return FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}) },
			want:  "[[ 1,  2],\n [ 3,  4]]\n[Tensor of shape: Shape[2, 2]]\n",
		},
		{
			name:  "int32 vector",
			build: func() (*RawTensor, error) { return FromSlice([]int32{-7, 10, 250}, Shape{3}) },
			want:  "[  -7,   10,  250]\n[Tensor of shape: Shape[3]]\n",
		},
		{
			name:  "fixed point",
			build: func() (*RawTensor, error) { return FromSlice([]float64{0.5, 1.25}, Shape{2}) },
			want:  "[0.5000, 1.2500]\n[Tensor of shape: Shape[2]]\n",
		},
		{
			name:  "wide range goes scientific",
			build: func() (*RawTensor, error) { return FromSlice([]float64{1e-3, 100.5}, Shape{2}) },
			want:  "[ 1.0000e-03,  1.0050e+02]\n[Tensor of shape: Shape[2]]\n",
		},
		{
			name:  "large integers go scientific",
			build: func() (*RawTensor, error) { return FromSlice([]float64{2e10}, Shape{1}) },
			want:  "[ 2.0000e+10]\n[Tensor of shape: Shape[1]]\n",
		},
		{
			name:  "scalar",
			build: func() (*RawTensor, error) { return FromSlice([]float32{2.5}, Shape{}) },
			want:  "2.5000\n[Tensor of shape: Shape[]]\n",
		},
		{
			name:  "empty",
			build: func() (*RawTensor, error) { return NewRaw(Shape{0, 3}, Float32) },
			want:  "[]\n[Tensor of shape: Shape[0, 3]]\n",
		},
		{
			name:  "rank three",
			build: func() (*RawTensor, error) { return FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8}, Shape{2, 2, 2}) },
			want:  "[[[ 1,  2],\n  [ 3,  4]],\n [[ 5,  6],\n  [ 7,  8]]]\n[Tensor of shape: Shape[2, 2, 2]]\n",
		},
		{
			name:  "infinity keeps integral mode",
			build: func() (*RawTensor, error) { return FromSlice([]float64{1, math.Inf(1)}, Shape{2}) },
			want:  "[ 1, +Inf]\n[Tensor of shape: Shape[2]]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.build()
			require.NoError(t, err)
			got, err := Format(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFollowsViews(t *testing.T) {
	raw, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)
	tr, err := Transpose(raw)
	require.NoError(t, err)

	got, err := Format(tr)
	require.NoError(t, err)
	assert.Equal(t, "[[ 1,  4],\n [ 2,  5],\n [ 3,  6]]\n[Tensor of shape: Shape[3, 2]]\n", got)
}

func TestFormatReleased(t *testing.T) {
	msgs := recordErrors(t)
	raw, err := FromSlice([]float32{1}, Shape{1})
	require.NoError(t, err)
	raw.Free()

	_, err = Format(raw)
	require.ErrorIs(t, err, ErrReleased)
	assert.Len(t, *msgs, 1)

	got, err := Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "[ Tensor (NULL) ]\n", got)
}
