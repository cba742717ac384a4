package serialization

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/born-ml/gradcore/internal/tensor"
)

const (
	maxTypeName = 255     // longest accepted type name, in bytes
	maxDims     = 32      // highest accepted rank
	maxElements = 1 << 30 // largest accepted parameter, in elements
	readChunk   = 1 << 16 // elements decoded per read
)

var byteOrder = binary.NativeEndian

// Record is one persisted parameter.
type Record struct {
	Shape tensor.Shape
	Data  []float32
}

func writeTypeName(w io.Writer, name string) error {
	if len(name) == 0 || len(name) > maxTypeName {
		return fmt.Errorf("invalid type name length %d", len(name))
	}
	buf := make([]byte, 0, len(name)+1)
	buf = append(buf, name...)
	buf = append(buf, 0)
	_, err := w.Write(buf)
	return err
}

func readTypeName(r *bufio.Reader) (string, error) {
	buf := make([]byte, 0, 16)
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: type name not terminated", ErrCorrupt)
			}
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		if len(buf) == maxTypeName {
			return "", fmt.Errorf("%w: type name longer than %d bytes", ErrCorrupt, maxTypeName)
		}
		buf = append(buf, b)
	}
}

func writeRecord(w io.Writer, p *tensor.RawTensor) error {
	if p.DType() != tensor.Float32 {
		return fmt.Errorf("%w: dtype %s, only float32 can be saved", ErrUnsupported, p.DType())
	}
	shape := p.Shape()
	header := make([]int32, 0, len(shape)+1)
	header = append(header, int32(len(shape)))
	for _, d := range shape {
		header = append(header, int32(d))
	}
	if err := binary.Write(w, byteOrder, header); err != nil {
		return err
	}
	data, err := tensor.ToSlice[float32](p)
	if err != nil {
		return err
	}
	return binary.Write(w, byteOrder, data)
}

// readRecord reads one parameter. It returns io.EOF only when r is
// exhausted exactly at a record boundary.
func readRecord(r io.Reader) (Record, error) {
	var ndim int32
	if err := binary.Read(r, byteOrder, &ndim); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, fmt.Errorf("%w: truncated rank", ErrCorrupt)
		}
		return Record{}, err
	}
	if ndim < 0 || ndim > maxDims {
		return Record{}, fmt.Errorf("%w: rank %d out of range", ErrCorrupt, ndim)
	}

	dims := make([]int32, ndim)
	if err := binary.Read(r, byteOrder, dims); err != nil {
		return Record{}, fmt.Errorf("%w: truncated dims: %w", ErrCorrupt, err)
	}
	shape := make(tensor.Shape, ndim)
	n := 1
	for i, d := range dims {
		if d < 0 {
			return Record{}, fmt.Errorf("%w: negative dimension %d", ErrCorrupt, d)
		}
		shape[i] = int(d)
		if d > 0 && n > maxElements/int(d) {
			return Record{}, fmt.Errorf("%w: shape %v too large", ErrCorrupt, shape[:i+1])
		}
		n *= int(d)
	}

	// The header alone does not prove the data is there; grow with what
	// is actually read.
	buf := make([]float32, min(n, readChunk))
	data := make([]float32, 0, len(buf))
	for len(data) < n {
		part := buf[:min(n-len(data), len(buf))]
		if err := binary.Read(r, byteOrder, part); err != nil {
			return Record{}, fmt.Errorf("%w: truncated data for shape %v after %d of %d elements: %w",
				ErrCorrupt, shape, len(data), n, err)
		}
		data = append(data, part...)
	}
	return Record{Shape: shape, Data: data}, nil
}
