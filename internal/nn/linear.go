package nn

import (
	"math/rand"

	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/tensor"
)

// LinearConfig configures a Linear layer.
type LinearConfig struct {
	Bias bool       // add a learnable bias
	Init Init       // weight initializer
	Rand *rand.Rand // random source; nil uses math/rand
}

// DefaultLinearConfig returns a config with bias and uniform initialization.
func DefaultLinearConfig() LinearConfig {
	return LinearConfig{Bias: true, Init: InitUniform}
}

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Backward computes:
//   - dW = gradᵀ @ x
//   - db = column sums of grad
//   - dx = grad @ W
//
// Example:
//
//	layer, _ := nn.NewLinear(2, 4, nn.DefaultLinearConfig())
//	out, _ := layer.Forward(ctx, input) // [batch, 4]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *autodiff.Node // [out_features, in_features]
	bias        *autodiff.Node // [out_features], nil without bias

	cache cache // forward input
}

// NewLinear creates a new Linear layer. Biases start at zero.
func NewLinear(inFeatures, outFeatures int, cfg LinearConfig) (*Linear, error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, tensor.Errorf(tensor.ErrShape, "Linear: features must be positive, got in=%d out=%d", inFeatures, outFeatures)
	}

	weightShape := tensor.Shape{outFeatures, inFeatures}
	var w *tensor.RawTensor
	var err error
	switch cfg.Init {
	case InitXavier:
		w, err = Xavier(inFeatures, outFeatures, weightShape, cfg.Rand)
	default:
		w, err = Uniform(weightShape, 0.1, cfg.Rand)
	}
	if err != nil {
		return nil, err
	}

	l := &Linear{inFeatures: inFeatures, outFeatures: outFeatures}
	if l.weight, err = parameter(w); err != nil {
		return nil, err
	}
	if cfg.Bias {
		b, err := Zeros(tensor.Shape{outFeatures})
		if err != nil {
			l.weight.Free()
			return nil, err
		}
		if l.bias, err = parameter(b); err != nil {
			l.weight.Free()
			return nil, err
		}
	}
	return l, nil
}

func parameter(value *tensor.RawTensor) (*autodiff.Node, error) {
	p := autodiff.NewLeaf(value)
	if err := autodiff.Default().SetRequiresGrad(p, true); err != nil {
		value.Free()
		return nil, err
	}
	return p, nil
}

// Forward computes y = x @ W.T + b for input of shape [batch, in_features].
func (l *Linear) Forward(ctx *autodiff.Context, input *autodiff.Node) (*autodiff.Node, error) {
	if input.DType() != tensor.Float32 {
		return nil, tensor.Errorf(tensor.ErrDType, "Linear: expected float32 input, got %s", input.DType())
	}
	if s := input.Shape(); len(s) != 2 || s[1] != l.inFeatures {
		return nil, tensor.Errorf(tensor.ErrShape, "Linear: expected input [batch, %d], got %v", l.inFeatures, s)
	}
	defer ctx.NoGrad()()

	wT, err := tensor.Transpose(l.weight.Value())
	if err != nil {
		return nil, err
	}
	out, err := ctx.MatMul(input, autodiff.NewLeaf(wT))
	if err != nil {
		return nil, err
	}
	if l.bias != nil {
		withBias, err := ctx.Add(out, l.bias)
		out.Free()
		if err != nil {
			return nil, err
		}
		out = withBias
	}

	if err := l.cache.store(ctx, input.Value()); err != nil {
		out.Free()
		return nil, err
	}
	return out, nil
}

// Backward accumulates dW and db and returns dx.
func (l *Linear) Backward(gradOutput *tensor.RawTensor) (*tensor.RawTensor, error) {
	ctx, x, err := l.cache.load(l.Name())
	if err != nil {
		return nil, err
	}
	if want := (tensor.Shape{x.Shape()[0], l.outFeatures}); !gradOutput.Shape().Equal(want) {
		return nil, tensor.Errorf(tensor.ErrShape, "Linear: expected gradient %v, got %v", want, gradOutput.Shape())
	}
	backend := ctx.Backend()

	dW, err := backend.MatMulTransA(gradOutput, x)
	if err != nil {
		return nil, err
	}
	err = ctx.AccumulateGrad(l.weight, dW)
	dW.Free()
	if err != nil {
		return nil, err
	}

	if l.bias != nil {
		db, err := backend.SumToShape(gradOutput, l.bias.Shape())
		if err != nil {
			return nil, err
		}
		err = ctx.AccumulateGrad(l.bias, db)
		db.Free()
		if err != nil {
			return nil, err
		}
	}

	return backend.MatMul(gradOutput, l.weight.Value())
}

// ZeroGrad clears the weight and bias gradients.
func (l *Linear) ZeroGrad() {
	clearGrads(l.Parameters())
}

// Free releases the parameters and the cached input.
func (l *Linear) Free() {
	for _, p := range l.Parameters() {
		p.Free()
	}
	l.cache.release()
}

// Parameters returns [weight, bias] if bias is present, otherwise [weight].
func (l *Linear) Parameters() []*autodiff.Node {
	if l.bias != nil {
		return []*autodiff.Node{l.weight, l.bias}
	}
	return []*autodiff.Node{l.weight}
}

// Name returns "Linear".
func (l *Linear) Name() string { return "Linear" }

// Weight returns the weight parameter.
func (l *Linear) Weight() *autodiff.Node {
	return l.weight
}

// Bias returns the bias parameter, or nil.
func (l *Linear) Bias() *autodiff.Node {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
