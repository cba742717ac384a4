package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/tensor"
)

// twoLayerLoss evaluates L = sum_j (x@W + b)_j² * v_j for x (1,3), W (3,4),
// b (4), v (4,1), with params = W ‖ b ‖ v.
func twoLayerLoss(x, params []float64) float64 {
	w, b, v := params[:12], params[12:16], params[16:20]
	var loss float64
	for j := 0; j < 4; j++ {
		h := b[j]
		for i := 0; i < 3; i++ {
			h += x[i] * w[i*4+j]
		}
		loss += h * h * v[j]
	}
	return loss
}

func TestBackwardGraphMatchesFiniteDifferences(t *testing.T) {
	ctx := newContext()

	xData := []float64{0.5, -1, 2}
	params := []float64{
		0.1, -0.2, 0.3, 0.05,
		-0.4, 0.25, 0.15, -0.1,
		0.2, 0.1, -0.3, 0.35,
		0.01, -0.02, 0.03, 0.04,
		1.5, -0.5, 0.75, 2,
	}

	x := leaf(t, ctx, xData, false, 1, 3)
	w := leaf(t, ctx, params[:12], true, 3, 4)
	b := leaf(t, ctx, params[12:16], true, 4)
	v := leaf(t, ctx, params[16:20], true, 4, 1)

	xw, err := ctx.MatMul(x, w)
	require.NoError(t, err)
	h, err := ctx.Add(xw, b)
	require.NoError(t, err)
	z, err := ctx.Mul(h, h)
	require.NoError(t, err)
	loss, err := ctx.MatMul(z, v)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{1, 1}, loss.Shape())

	require.NoError(t, ctx.BackwardGraph(loss))

	want := fd.Gradient(nil, func(p []float64) float64 { return twoLayerLoss(xData, p) }, params, central())

	got := append(append(gradOf(t, w), gradOf(t, b)...), gradOf(t, v)...)
	assert.True(t, floats.EqualApprox(want, got, 1e-5), "want %v\ngot  %v", want, got)

	// Intermediate gradients are freed, leaf gradients kept.
	for _, n := range []*autodiff.Node{loss, z, h, xw} {
		assert.Nil(t, n.Grad())
	}
	assert.Nil(t, x.Grad())
}

func TestBackwardGraphRetainGraph(t *testing.T) {
	ctx := newContext()
	ctx.SetRetainGraph(true)

	a := leaf(t, ctx, []float64{3}, true, 1)
	b := leaf(t, ctx, []float64{4}, true, 1)
	s, err := ctx.Add(a, b)
	require.NoError(t, err)
	p, err := ctx.Mul(s, a)
	require.NoError(t, err)

	require.NoError(t, ctx.BackwardGraph(p))

	// p = (a+b)*a: dp/da = 2a+b, dp/db = a
	assert.Equal(t, []float64{10}, gradOf(t, a))
	assert.Equal(t, []float64{3}, gradOf(t, b))
	assert.Equal(t, []float64{3}, gradOf(t, s))
	assert.Equal(t, []float64{1}, gradOf(t, p))
}

func TestBackwardGraphDiamond(t *testing.T) {
	ctx := newContext()

	// y = (a*2) + (a*3) through a shared leaf and a broadcast constant.
	a := leaf(t, ctx, []float64{1, 2}, true, 2)
	two := leaf(t, ctx, []float64{2}, false, 1)
	three := leaf(t, ctx, []float64{3}, false, 1)

	l, err := ctx.Mul(a, two)
	require.NoError(t, err)
	r, err := ctx.Mul(a, three)
	require.NoError(t, err)
	y, err := ctx.Add(l, r)
	require.NoError(t, err)

	require.NoError(t, ctx.AccumulateGrad(y, ones(t, 2)))
	require.NoError(t, ctx.BackwardGraph(y))
	assert.Equal(t, []float64{5, 5}, gradOf(t, a))
}

func TestBackwardSingleHopDoesNotRecurse(t *testing.T) {
	ctx := newContext()

	a := leaf(t, ctx, []float64{2}, true, 1)
	b := leaf(t, ctx, []float64{5}, true, 1)
	s, err := ctx.Add(a, b)
	require.NoError(t, err)
	p, err := ctx.Mul(s, s)
	require.NoError(t, err)

	require.NoError(t, ctx.Backward(p))
	assert.Equal(t, []float64{14}, gradOf(t, s))
	assert.Nil(t, a.Grad(), "single-hop backward must stop at direct parents")

	// Driving backward per node reaches the leaves.
	require.NoError(t, ctx.Backward(s))
	assert.Equal(t, []float64{14}, gradOf(t, a))
	assert.Equal(t, []float64{14}, gradOf(t, b))
}
