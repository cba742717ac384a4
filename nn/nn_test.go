// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradcore/autodiff"
	"github.com/born-ml/gradcore/backend/cpu"
	"github.com/born-ml/gradcore/nn"
	"github.com/born-ml/gradcore/optim"
	"github.com/born-ml/gradcore/tensor"
)

// TestModuleInterface verifies every layer satisfies nn.Module.
func TestModuleInterface(_ *testing.T) {
	var _ nn.Module = (*nn.Linear)(nil)
	var _ nn.Module = (*nn.ReLU)(nil)
	var _ nn.Module = (*nn.Sigmoid)(nil)
	var _ nn.Module = (*nn.Tanh)(nil)
	var _ nn.Module = (*nn.Sequential)(nil)
	var _ optim.Optimizer = (*optim.SGD)(nil)
	var _ optim.Optimizer = (*optim.Adam)(nil)
}

func TestTrainingStepThroughFacades(t *testing.T) {
	ctx := autodiff.NewContext(cpu.NewWithConfig(cpu.SequentialConfig()))
	rng := rand.New(rand.NewSource(7))
	l1, err := nn.NewLinear(2, 4, nn.LinearConfig{Bias: true, Init: nn.InitXavier, Rand: rng})
	require.NoError(t, err)
	l2, err := nn.NewLinear(4, 1, nn.LinearConfig{Bias: true, Init: nn.InitXavier, Rand: rng})
	require.NoError(t, err)
	model := nn.NewSequential(l1, nn.NewSigmoid(), l2)
	defer model.Free()
	require.Len(t, model.Parameters(), 4)

	xRaw, err := tensor.FromSlice([]float32{0, 1, 1, 0}, tensor.Shape{2, 2})
	require.NoError(t, err)
	yRaw, err := tensor.FromSlice([]float32{1, 0}, tensor.Shape{2, 1})
	require.NoError(t, err)
	x, y := autodiff.NewLeaf(xRaw), autodiff.NewLeaf(yRaw)
	defer x.Free()
	defer y.Free()

	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.5})
	var losses []float64
	for range 20 {
		out, err := model.Forward(ctx, x)
		require.NoError(t, err)
		loss, grad, err := nn.MSELoss(ctx, out, y)
		require.NoError(t, err)
		dx, err := model.Backward(grad)
		require.NoError(t, err)
		require.NoError(t, opt.Step())
		out.Free()
		grad.Free()
		dx.Free()
		losses = append(losses, loss)
	}
	assert.Less(t, losses[len(losses)-1], losses[0])
	for _, p := range model.Parameters() {
		assert.Nil(t, p.Grad(), "step clears gradients")
	}
}
