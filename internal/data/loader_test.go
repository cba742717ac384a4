package data_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradcore/internal/data"
	"github.com/born-ml/gradcore/internal/tensor"
)

func dataset(t *testing.T, samples int) (*tensor.RawTensor, *tensor.RawTensor) {
	t.Helper()
	xs := make([]float32, samples*2)
	ys := make([]float32, samples)
	for i := range samples {
		xs[2*i], xs[2*i+1] = float32(i), float32(-i)
		ys[i] = float32(10 * i)
	}
	x, err := tensor.FromSlice(xs, tensor.Shape{samples, 2})
	require.NoError(t, err)
	y, err := tensor.FromSlice(ys, tensor.Shape{samples, 1})
	require.NoError(t, err)
	return x, y
}

func TestLoaderCoversDatasetWithViews(t *testing.T) {
	x, y := dataset(t, 5)
	loader, err := data.NewLoader(x, y, data.LoaderConfig{BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, loader.Len())
	assert.Equal(t, 3, loader.NumBatches())

	var sizes []int
	var labels []float32
	for {
		batch, err := loader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, batch.Size)

		assert.True(t, batch.Data.SharesStorage(x), "batches borrow the dataset")
		assert.False(t, batch.Data.IsOwner())
		assert.Equal(t, tensor.Shape{batch.Size, 2}, batch.Data.Shape())

		first, err := tensor.At[float32](batch.Data, 0, 0)
		require.NoError(t, err)
		ys, err := tensor.ToSlice[float32](batch.Labels)
		require.NoError(t, err)
		assert.Equal(t, 10*first, ys[0], "rows and labels stay paired")
		labels = append(labels, ys...)
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, []float32{0, 10, 20, 30, 40}, labels)

	_, err = loader.Next()
	require.ErrorIs(t, err, io.EOF)

	loader.Reset()
	batch, err := loader.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Size)
}

func TestLoaderViewsFailAfterDatasetFree(t *testing.T) {
	var msgs []string
	prev := tensor.SetErrorHandler(func(msg string) { msgs = append(msgs, msg) })
	t.Cleanup(func() { tensor.SetErrorHandler(prev) })

	x, y := dataset(t, 4)
	loader, err := data.NewLoader(x, y, data.LoaderConfig{BatchSize: 4})
	require.NoError(t, err)
	batch, err := loader.Next()
	require.NoError(t, err)

	batch.Data.Free() // view free leaves the dataset intact
	require.NoError(t, x.Live())

	x.Free()
	_, err = tensor.ToSlice[float32](batch.Labels)
	require.NoError(t, err)
	require.ErrorIs(t, batch.Data.Live(), tensor.ErrReleased)
}

func TestNewLoaderValidation(t *testing.T) {
	var msgs []string
	prev := tensor.SetErrorHandler(func(msg string) { msgs = append(msgs, msg) })
	t.Cleanup(func() { tensor.SetErrorHandler(prev) })

	x, y := dataset(t, 4)
	short, _ := dataset(t, 3)

	tests := []struct {
		name   string
		data   *tensor.RawTensor
		labels *tensor.RawTensor
		batch  int
		want   error
	}{
		{"zero batch", x, y, 0, tensor.ErrShape},
		{"nil labels", x, nil, 2, tensor.ErrShape},
		{"sample mismatch", x, short, 2, tensor.ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := data.NewLoader(tt.data, tt.labels, data.LoaderConfig{BatchSize: tt.batch})
			require.ErrorIs(t, err, tt.want)
		})
	}
	assert.Len(t, msgs, len(tests))

	scalar, err := tensor.FromSlice([]float32{1}, tensor.Shape{})
	require.NoError(t, err)
	_, err = data.NewLoader(scalar, scalar, data.LoaderConfig{BatchSize: 1})
	require.ErrorIs(t, err, tensor.ErrAxis)
}
