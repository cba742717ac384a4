package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/parallel"
	"github.com/born-ml/gradcore/internal/tensor"
)

func f64(t *testing.T, data []float64, shape ...int) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return raw
}

func gradValues(t *testing.T, rule Rule, g, a, b *tensor.RawTensor, input int) []float64 {
	t.Helper()
	backend := cpu.NewWithConfig(parallel.Sequential())
	out, err := rule.Grad(backend, g, a, b, input)
	require.NoError(t, err)
	self := a
	if input == 1 {
		self = b
	}
	assert.Equal(t, self.Shape(), out.Shape(), "%s grad shape", rule.Name())
	vals, err := tensor.ToSlice[float64](out)
	require.NoError(t, err)
	return vals
}

func TestRules(t *testing.T) {
	a := f64(t, []float64{1, 2, 3, 4}, 2, 2)
	b := f64(t, []float64{5, 6, 7, 8}, 2, 2)
	g := f64(t, []float64{1, 1, 2, 2}, 2, 2)

	tests := []struct {
		rule  Rule
		wantA []float64
		wantB []float64
	}{
		{Add{}, []float64{1, 1, 2, 2}, []float64{1, 1, 2, 2}},
		{Sub{}, []float64{1, 1, 2, 2}, []float64{-1, -1, -2, -2}},
		{Mul{}, []float64{5, 6, 14, 16}, []float64{1, 2, 6, 8}},
		{Div{}, []float64{1.0 / 5, 1.0 / 6, 2.0 / 7, 2.0 / 8},
			[]float64{-1.0 / 25, -2.0 / 36, -2 * 3.0 / 49, -2 * 4.0 / 64}},
		// dA = g @ Bᵀ, dB = Aᵀ @ g
		{MatMul{}, []float64{11, 15, 22, 30}, []float64{7, 7, 10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.rule.Name(), func(t *testing.T) {
			assert.InDeltaSlice(t, tt.wantA, gradValues(t, tt.rule, g, a, b, 0), 1e-12)
			assert.InDeltaSlice(t, tt.wantB, gradValues(t, tt.rule, g, a, b, 1), 1e-12)
		})
	}
}

func TestRulesReduceBroadcast(t *testing.T) {
	a := f64(t, []float64{1, 2, 3, 4, 5, 6}, 2, 3)
	bias := f64(t, []float64{10, 20, 30}, 3)
	g := f64(t, []float64{1, 1, 1, 1, 1, 1}, 2, 3)

	assert.Equal(t, []float64{2, 2, 2}, gradValues(t, Add{}, g, a, bias, 1))
	assert.Equal(t, []float64{5, 7, 9}, gradValues(t, Mul{}, g, a, bias, 1))
	assert.Equal(t, []float64{-2, -2, -2}, gradValues(t, Sub{}, g, a, bias, 1))
}
