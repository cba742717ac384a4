package serialization

import "errors"

// Common errors.
var (
	ErrTypeMismatch  = errors.New("model type mismatch")
	ErrParamCount    = errors.New("parameter count mismatch")
	ErrShapeMismatch = errors.New("parameter shape mismatch")
	ErrCorrupt       = errors.New("corrupt model file")
	ErrUnsupported   = errors.New("unsupported parameter")
)
