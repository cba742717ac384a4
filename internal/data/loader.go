// Package data batches paired sample and label tensors for training.
package data

import (
	"io"

	"github.com/born-ml/gradcore/internal/tensor"
)

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	BatchSize int // samples per batch; must be positive
}

// Batch is one mini-batch. Data and Labels are views borrowing the
// loader's tensors, so they stay valid only while those tensors do.
type Batch struct {
	Data   *tensor.RawTensor
	Labels *tensor.RawTensor
	Size   int
}

// Loader walks data and labels along their first axis in consecutive
// mini-batches. The last batch may be smaller if the sample count is not a
// multiple of the batch size.
//
//	loader, _ := data.NewLoader(x, y, data.LoaderConfig{BatchSize: 32})
//	for {
//	    batch, err := loader.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
type Loader struct {
	data      *tensor.RawTensor
	labels    *tensor.RawTensor
	size      int
	batchSize int
	next      int
}

// NewLoader creates a loader over data and labels, which must agree in
// their first dimension.
func NewLoader(data, labels *tensor.RawTensor, cfg LoaderConfig) (*Loader, error) {
	if data == nil || labels == nil || cfg.BatchSize <= 0 {
		return nil, tensor.Errorf(tensor.ErrShape, "invalid dataloader parameters: batch size %d", cfg.BatchSize)
	}
	if data.NDim() == 0 || labels.NDim() == 0 {
		return nil, tensor.Errorf(tensor.ErrAxis, "dataloader needs at least one axis, got %v and %v", data.Shape(), labels.Shape())
	}
	if data.Shape()[0] != labels.Shape()[0] {
		return nil, tensor.Errorf(tensor.ErrShape, "data has %d samples but labels have %d", data.Shape()[0], labels.Shape()[0])
	}
	return &Loader{
		data:      data,
		labels:    labels,
		size:      data.Shape()[0],
		batchSize: cfg.BatchSize,
	}, nil
}

// Next returns the next batch, or io.EOF once every sample has been served.
func (l *Loader) Next() (Batch, error) {
	n := min(l.batchSize, l.size-l.next)
	if n <= 0 {
		return Batch{}, io.EOF
	}
	x, err := tensor.Narrow(l.data, 0, l.next, n)
	if err != nil {
		return Batch{}, err
	}
	y, err := tensor.Narrow(l.labels, 0, l.next, n)
	if err != nil {
		return Batch{}, err
	}
	l.next += n
	return Batch{Data: x, Labels: y, Size: n}, nil
}

// Reset rewinds the loader to the first sample.
func (l *Loader) Reset() {
	l.next = 0
}

// Len returns the number of samples.
func (l *Loader) Len() int {
	return l.size
}

// NumBatches returns the number of batches in one pass.
func (l *Loader) NumBatches() int {
	return (l.size + l.batchSize - 1) / l.batchSize
}
