package nn

import (
	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/tensor"
)

// MSELoss computes Mean Squared Error loss and its gradient.
//
//	loss = mean((predictions - targets)²)
//	grad = 2 * (predictions - targets) / N
//
// The returned gradient has the predictions' shape and is owned by the
// caller; it is the gradOutput to feed into Module.Backward.
func MSELoss(ctx *autodiff.Context, predictions, targets *autodiff.Node) (float64, *tensor.RawTensor, error) {
	if !predictions.Shape().Equal(targets.Shape()) {
		return 0, nil, tensor.Errorf(tensor.ErrShape, "MSELoss: predictions %v and targets %v must have the same shape",
			predictions.Shape(), targets.Shape())
	}
	n := predictions.Value().NumElements()
	if n == 0 {
		return 0, nil, tensor.Errorf(tensor.ErrShape, "MSELoss: empty input")
	}
	backend := ctx.Backend()

	diff, err := backend.Sub(predictions.Value(), targets.Value())
	if err != nil {
		return 0, nil, err
	}
	defer diff.Free()

	squared, err := backend.Mul(diff, diff)
	if err != nil {
		return 0, nil, err
	}
	sum, err := backend.Sum(squared)
	squared.Free()
	if err != nil {
		return 0, nil, err
	}

	grad, err := backend.Scale(diff, 2/float64(n))
	if err != nil {
		return 0, nil, err
	}
	return sum / float64(n), grad, nil
}
