package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/gradcore/internal/tensor"
)

// Init selects how Linear initializes its weight.
type Init int

const (
	// InitUniform draws from U(-0.05, 0.05).
	InitUniform Init = iota
	// InitXavier draws from the Glorot uniform distribution.
	InitXavier
)

// String returns the initializer name.
func (i Init) String() string {
	switch i {
	case InitUniform:
		return "uniform"
	case InitXavier:
		return "xavier"
	default:
		return "unknown"
	}
}

// Uniform returns a float32 tensor with values drawn from U(-scale/2, scale/2).
// A nil rng uses the package-level math/rand source.
func Uniform(shape tensor.Shape, scale float64, rng *rand.Rand) (*tensor.RawTensor, error) {
	t, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		return nil, err
	}
	data := t.AsFloat32()
	for i := range data {
		data[i] = float32((sample(rng) - 0.5) * scale)
	}
	return t, nil
}

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) (*tensor.RawTensor, error) {
	if fanIn+fanOut <= 0 {
		return nil, tensor.Errorf(tensor.ErrShape, "xavier: fan_in + fan_out must be positive, got %d", fanIn+fanOut)
	}
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return Uniform(shape, 2*bound, rng)
}

// Zeros returns a zero-filled float32 tensor, used for biases.
func Zeros(shape tensor.Shape) (*tensor.RawTensor, error) {
	return tensor.NewRaw(shape, tensor.Float32)
}

// Ones returns a float32 tensor with every element set to 1.
func Ones(shape tensor.Shape) (*tensor.RawTensor, error) {
	t, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		return nil, err
	}
	data := t.AsFloat32()
	for i := range data {
		data[i] = 1
	}
	return t, nil
}

func sample(rng *rand.Rand) float64 {
	if rng == nil {
		//nolint:gosec // weight initialization is not security-critical
		return rand.Float64()
	}
	return rng.Float64()
}
