package optim_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/nn"
	"github.com/born-ml/gradcore/internal/optim"
	"github.com/born-ml/gradcore/internal/parallel"
	"github.com/born-ml/gradcore/internal/tensor"
)

func newContext() *autodiff.Context {
	return autodiff.NewContext(cpu.NewWithConfig(parallel.Sequential()))
}

// param returns a float32 leaf that requires gradients.
func param(t *testing.T, ctx *autodiff.Context, data ...float32) *autodiff.Node {
	t.Helper()
	raw, err := tensor.FromSlice(data, tensor.Shape{len(data)})
	require.NoError(t, err)
	p := autodiff.NewLeaf(raw)
	require.NoError(t, ctx.SetRequiresGrad(p, true))
	return p
}

func setGrad(t *testing.T, ctx *autodiff.Context, p *autodiff.Node, data ...float32) {
	t.Helper()
	g, err := tensor.FromSlice(data, tensor.Shape{len(data)})
	require.NoError(t, err)
	defer g.Free()
	p.ClearGrad()
	require.NoError(t, ctx.AccumulateGrad(p, g))
}

func TestSGD_SimpleUpdate(t *testing.T) {
	ctx := newContext()
	x := param(t, ctx, 2.0)
	opt := optim.NewSGD([]*autodiff.Node{x}, optim.SGDConfig{LR: 0.1})

	setGrad(t, ctx, x, 1.0)
	require.NoError(t, opt.Step())

	// x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0
	assert.InDelta(t, 1.9, x.Value().AsFloat32()[0], 1e-6)
	assert.Nil(t, x.Grad(), "step clears the gradient")
}

func TestSGD_WithMomentum(t *testing.T) {
	ctx := newContext()
	x := param(t, ctx, 1.0)
	opt := optim.NewSGD([]*autodiff.Node{x}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// v = -0.1, x = 0.9
	setGrad(t, ctx, x, 1.0)
	require.NoError(t, opt.Step())
	assert.InDelta(t, 0.9, x.Value().AsFloat32()[0], 1e-6)

	// v = 0.9*(-0.1) - 0.1 = -0.19, x = 0.71
	setGrad(t, ctx, x, 1.0)
	require.NoError(t, opt.Step())
	assert.InDelta(t, 0.71, x.Value().AsFloat32()[0], 1e-6)
}

func TestSGD_WeightDecay(t *testing.T) {
	ctx := newContext()
	x := param(t, ctx, 2.0, -4.0)
	opt := optim.NewSGD([]*autodiff.Node{x}, optim.SGDConfig{LR: 0.1, WeightDecay: 0.5})

	setGrad(t, ctx, x, 1.0, 0.0)
	require.NoError(t, opt.Step())

	// g' = g + 0.5*x
	assert.InDeltaSlice(t, []float32{1.8, -3.8}, x.Value().AsFloat32()[:2], 1e-6)
}

func TestSGD_Defaults(t *testing.T) {
	opt := optim.NewSGD(nil, optim.SGDConfig{})
	assert.InDelta(t, 0.01, opt.LR(), 1e-9)
	opt.SetLR(0.5)
	assert.InDelta(t, 0.5, opt.LR(), 1e-9)
	require.NoError(t, opt.Step())
}

func TestAdam_Update(t *testing.T) {
	ctx := newContext()
	x := param(t, ctx, 1.0)
	opt := optim.NewAdam([]*autodiff.Node{x}, optim.AdamConfig{LR: 0.1})

	// With bias correction the first steps move by lr * sign(g).
	setGrad(t, ctx, x, 0.5)
	require.NoError(t, opt.Step())
	assert.InDelta(t, 0.9, x.Value().AsFloat32()[0], 1e-5)
	assert.Equal(t, 1, opt.Timestep())

	setGrad(t, ctx, x, 0.5)
	require.NoError(t, opt.Step())
	assert.InDelta(t, 0.8, x.Value().AsFloat32()[0], 1e-5)
	assert.Nil(t, x.Grad())
}

func TestAdam_Defaults(t *testing.T) {
	opt := optim.NewAdam(nil, optim.AdamConfig{})
	assert.InDelta(t, 0.001, opt.LR(), 1e-9)
}

func TestOptimizers_SkipParamsWithoutGrad(t *testing.T) {
	ctx := newContext()
	for _, newOpt := range []func([]*autodiff.Node) optim.Optimizer{
		func(p []*autodiff.Node) optim.Optimizer { return optim.NewSGD(p, optim.SGDConfig{LR: 0.1}) },
		func(p []*autodiff.Node) optim.Optimizer { return optim.NewAdam(p, optim.AdamConfig{LR: 0.1}) },
	} {
		withGrad := param(t, ctx, 1.0)
		noGrad := param(t, ctx, 1.0)
		frozen := param(t, ctx, 1.0)
		require.NoError(t, ctx.SetRequiresGrad(frozen, false))

		opt := newOpt([]*autodiff.Node{withGrad, noGrad, frozen})
		setGrad(t, ctx, withGrad, 1.0)
		require.NoError(t, opt.Step())

		assert.Less(t, withGrad.Value().AsFloat32()[0], float32(1))
		assert.Equal(t, float32(1), noGrad.Value().AsFloat32()[0])
		assert.Equal(t, float32(1), frozen.Value().AsFloat32()[0])

		setGrad(t, ctx, noGrad, 3.0)
		opt.ZeroGrad()
		assert.Nil(t, noGrad.Grad())
	}
}

func TestOptimizers_RejectFloat64(t *testing.T) {
	var msgs []string
	prev := tensor.SetErrorHandler(func(msg string) { msgs = append(msgs, msg) })
	t.Cleanup(func() { tensor.SetErrorHandler(prev) })

	ctx := newContext()
	raw, err := tensor.FromSlice([]float64{1}, tensor.Shape{1})
	require.NoError(t, err)
	p := autodiff.NewLeaf(raw)
	require.NoError(t, ctx.SetRequiresGrad(p, true))
	g, err := tensor.FromSlice([]float64{1}, tensor.Shape{1})
	require.NoError(t, err)
	require.NoError(t, ctx.AccumulateGrad(p, g))

	err = optim.NewSGD([]*autodiff.Node{p}, optim.SGDConfig{}).Step()
	require.ErrorIs(t, err, tensor.ErrDType)
	assert.Len(t, msgs, 1)
}

func TestTrainLinearRegression(t *testing.T) {
	ctx := newContext()
	l, err := nn.NewLinear(1, 1, nn.LinearConfig{Bias: true, Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)
	defer l.Free()

	xRaw, err := tensor.FromSlice([]float32{-1, 0, 1, 2}, tensor.Shape{4, 1})
	require.NoError(t, err)
	yRaw, err := tensor.FromSlice([]float32{-1, 1, 3, 5}, tensor.Shape{4, 1}) // y = 2x + 1
	require.NoError(t, err)
	x, y := autodiff.NewLeaf(xRaw), autodiff.NewLeaf(yRaw)

	for _, opt := range []optim.Optimizer{
		optim.NewSGD(l.Parameters(), optim.SGDConfig{LR: 0.1, Momentum: 0.5}),
		optim.NewAdam(l.Parameters(), optim.AdamConfig{LR: 0.05}),
	} {
		l.Weight().Value().AsFloat32()[0] = 0
		l.Bias().Value().AsFloat32()[0] = 0

		var first, last float64
		for epoch := 0; epoch < 300; epoch++ {
			out, err := l.Forward(ctx, x)
			require.NoError(t, err)
			loss, grad, err := nn.MSELoss(ctx, out, y)
			require.NoError(t, err)
			dx, err := l.Backward(grad)
			require.NoError(t, err)
			require.NoError(t, opt.Step())
			out.Free()
			grad.Free()
			dx.Free()
			if epoch == 0 {
				first = loss
			}
			last = loss
		}
		assert.Less(t, last, first/100, "loss should drop")
		assert.InDelta(t, 2.0, l.Weight().Value().AsFloat32()[0], 0.1)
		assert.InDelta(t, 1.0, l.Bias().Value().AsFloat32()[0], 0.1)
	}
}
