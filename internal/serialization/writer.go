package serialization

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/gradcore/internal/nn"
)

// Write encodes model's type name and parameters to w.
func Write(w io.Writer, model nn.Module) error {
	if err := writeTypeName(w, model.Name()); err != nil {
		return fmt.Errorf("failed to write type name: %w", err)
	}
	for i, p := range model.Parameters() {
		if err := writeRecord(w, p.Value()); err != nil {
			return fmt.Errorf("failed to write parameter %d: %w", i, err)
		}
	}
	return nil
}

// Save writes model to the file at path, replacing any existing file.
func Save(path string, model nn.Module) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	bw := bufio.NewWriter(file)
	if err := Write(bw, model); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return nil
}
