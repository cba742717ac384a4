package serialization

import (
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/born-ml/gradcore/internal/nn"
)

// Load reads the file at path into model's parameters. The file is mapped
// read-only for the duration of the call.
func Load(path string, model nn.Module) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.Size() == 0 {
		return fmt.Errorf("%w: empty file", ErrCorrupt)
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mmap failed: %w", err)
	}
	defer func() {
		if unmapErr := data.Unmap(); unmapErr != nil && err == nil {
			err = fmt.Errorf("munmap failed: %w", unmapErr)
		}
	}()

	return Read(bytes.NewReader(data), model)
}
