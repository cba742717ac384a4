package optim

import (
	"github.com/chewxy/math32"

	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/parallel"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)   // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	params []*autodiff.Node
	lr     float32
	beta1  float32
	beta2  float32
	eps    float32
	t      int         // Timestep for bias correction
	m      [][]float32 // First moment estimates, by parameter index
	v      [][]float32 // Second moment estimates, by parameter index
	cfg    parallel.Config
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float32 // Learning rate (default: 0.001)
	Beta1 float32 // First moment decay (default: 0.9)
	Beta2 float32 // Second moment decay (default: 0.999)
	Eps   float32 // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer. Zero config fields take the
// defaults listed on AdamConfig.
func NewAdam(params []*autodiff.Node, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Beta1,
		beta2:  config.Beta2,
		eps:    config.Eps,
		m:      make([][]float32, len(params)),
		v:      make([][]float32, len(params)),
		cfg:    parallel.DefaultConfig(),
	}
}

// Step performs a single optimization step using Adam algorithm.
func (a *Adam) Step() error {
	a.t++
	step := float32(a.t)
	biasCorrection1 := 1 - math32.Pow(a.beta1, step)
	biasCorrection2 := 1 - math32.Pow(a.beta2, step)
	lr, beta1, beta2, eps := a.lr, a.beta1, a.beta2, a.eps

	return update(a.params, a.cfg, func(i int, param, grad []float32, cfg parallel.Config) {
		if a.m[i] == nil {
			a.m[i] = make([]float32, len(param))
			a.v[i] = make([]float32, len(param))
		}
		m, v := a.m[i], a.v[i]
		parallel.ForRange(len(param), func(start, end int) {
			for j := start; j < end; j++ {
				g := grad[j]
				m[j] = beta1*m[j] + (1-beta1)*g
				v[j] = beta2*v[j] + (1-beta2)*g*g
				mHat := m[j] / biasCorrection1
				vHat := v[j] / biasCorrection2
				param[j] -= lr * mHat / (math32.Sqrt(vHat) + eps)
			}
		}, cfg)
	})
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() {
	clearGrads(a.params)
}

// LR returns the current learning rate.
func (a *Adam) LR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float32) {
	a.lr = lr
}

// Timestep returns the number of steps taken.
func (a *Adam) Timestep() int {
	return a.t
}
