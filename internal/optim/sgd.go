package optim

import (
	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/parallel"
)

// SGD implements Stochastic Gradient Descent optimizer with optional
// momentum and L2 weight decay.
//
// With weight decay the gradient is first replaced by
//
//	g = gradient + weight_decay * param
//
// Update rule without momentum:
//
//	param = param - lr * g
//
// Update rule with momentum:
//
//	velocity = momentum * velocity - lr * g
//	param = param + velocity
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params      []*autodiff.Node
	lr          float32
	momentum    float32
	weightDecay float32
	velocities  [][]float32 // by parameter index, allocated on first use
	cfg         parallel.Config
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR          float32 // Learning rate (default: 0.01)
	Momentum    float32 // Momentum factor (default: 0.0, range: [0, 1))
	WeightDecay float32 // L2 penalty (default: 0.0)
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*autodiff.Node, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:      params,
		lr:          config.LR,
		momentum:    config.Momentum,
		weightDecay: config.WeightDecay,
		velocities:  make([][]float32, len(params)),
		cfg:         parallel.DefaultConfig(),
	}
}

// Step performs a single optimization step. The caller's gradient buffers
// are not modified by weight decay; each one is cleared once applied.
func (s *SGD) Step() error {
	lr, momentum, wd := s.lr, s.momentum, s.weightDecay
	return update(s.params, s.cfg, func(i int, param, grad []float32, cfg parallel.Config) {
		if momentum == 0 {
			parallel.ForRange(len(param), func(start, end int) {
				for j := start; j < end; j++ {
					param[j] -= lr * (grad[j] + wd*param[j])
				}
			}, cfg)
			return
		}

		if s.velocities[i] == nil {
			s.velocities[i] = make([]float32, len(param))
		}
		velocity := s.velocities[i]
		parallel.ForRange(len(param), func(start, end int) {
			for j := start; j < end; j++ {
				velocity[j] = momentum*velocity[j] - lr*(grad[j]+wd*param[j])
				param[j] += velocity[j]
			}
		}, cfg)
	})
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	clearGrads(s.params)
}

// LR returns the current learning rate.
func (s *SGD) LR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float32) {
	s.lr = lr
}
