package serialization

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/born-ml/gradcore/internal/nn"
	"github.com/born-ml/gradcore/internal/tensor"
)

// ReadRecords decodes a model stream without a receiving module. It
// returns the type name and the parameters in file order.
func ReadRecords(r io.Reader) (string, []Record, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	name, err := readTypeName(br)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read type name: %w", err)
	}

	var records []Record
	for {
		rec, err := readRecord(br)
		if errors.Is(err, io.EOF) {
			return name, records, nil
		}
		if err != nil {
			return "", nil, fmt.Errorf("failed to read parameter %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}

// Read decodes a model stream from r into model's parameters. The type
// name, parameter count and every shape must match model; nothing is
// copied unless all of them do.
func Read(r io.Reader, model nn.Module) error {
	name, records, err := ReadRecords(r)
	if err != nil {
		return err
	}
	return apply(model, name, records)
}

func apply(model nn.Module, name string, records []Record) error {
	if name != model.Name() {
		return fmt.Errorf("%w: file holds %q, model is %q", ErrTypeMismatch, name, model.Name())
	}
	params := model.Parameters()
	if len(records) != len(params) {
		return fmt.Errorf("%w: file holds %d, model has %d", ErrParamCount, len(records), len(params))
	}

	for i, p := range params {
		if p.DType() != tensor.Float32 {
			return fmt.Errorf("%w: parameter %d is %s", ErrUnsupported, i, p.DType())
		}
		if !p.Value().IsContiguous() {
			return fmt.Errorf("%w: parameter %d is not contiguous", ErrUnsupported, i)
		}
		if !records[i].Shape.Equal(p.Shape()) {
			return fmt.Errorf("%w: parameter %d: file %v, model %v", ErrShapeMismatch, i, records[i].Shape, p.Shape())
		}
		if err := p.Value().Live(); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}

	for i, p := range params {
		copy(p.Value().AsFloat32(), records[i].Data)
	}
	return nil
}
