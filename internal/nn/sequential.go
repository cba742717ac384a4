package nn

import (
	"fmt"

	"github.com/born-ml/gradcore/internal/autodiff"
	"github.com/born-ml/gradcore/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input. Backward runs the
// modules in reverse, feeding each one the gradient returned by its
// successor.
//
// Example:
//
//	model := nn.NewSequential(l1, nn.NewReLU(), l2)
//	out, _ := model.Forward(ctx, input)
//	dx, _ := model.Backward(gradOut)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in sequence. Intermediate outputs are freed
// once consumed.
func (s *Sequential) Forward(ctx *autodiff.Context, input *autodiff.Node) (*autodiff.Node, error) {
	output := input
	for i, m := range s.modules {
		next, err := m.Forward(ctx, output)
		if output != input {
			output.Free()
		}
		if err != nil {
			return nil, fmt.Errorf("sequential: module %d (%s): %w", i, m.Name(), err)
		}
		output = next
	}
	return output, nil
}

// Backward propagates gradOutput through the modules in reverse order and
// returns the gradient with respect to the Sequential input.
func (s *Sequential) Backward(gradOutput *tensor.RawTensor) (*tensor.RawTensor, error) {
	grad := gradOutput
	for i := len(s.modules) - 1; i >= 0; i-- {
		next, err := s.modules[i].Backward(grad)
		if grad != gradOutput {
			grad.Free()
		}
		if err != nil {
			return nil, fmt.Errorf("sequential: module %d (%s): %w", i, s.modules[i].Name(), err)
		}
		grad = next
	}
	if grad == gradOutput {
		return gradOutput.Clone()
	}
	return grad, nil
}

// ZeroGrad clears the gradients of every contained module.
func (s *Sequential) ZeroGrad() {
	for _, m := range s.modules {
		m.ZeroGrad()
	}
}

// Free releases every contained module.
func (s *Sequential) Free() {
	for _, m := range s.modules {
		m.Free()
	}
}

// Parameters returns the parameters of all modules, in module order.
func (s *Sequential) Parameters() []*autodiff.Node {
	var params []*autodiff.Node
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// Name returns "Sequential".
func (s *Sequential) Name() string { return "Sequential" }

// Add appends a module to the end of the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at index, or nil if out of range.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		return nil
	}
	return s.modules[index]
}
