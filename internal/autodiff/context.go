// Package autodiff implements reverse-mode automatic differentiation over
// graph-aware tensors.
//
// Architecture:
//   - Node: a RawTensor plus gradient state and the operator that produced it
//   - Op: closed set of recorded operators, each resolving to a gradient rule
//   - Context: grad-enabled state, retain-graph flag and the compute backend
//   - Backward: single-hop propagation into the root's parents
//   - BackwardGraph: full reverse-topological propagation down to the leaves
//
// Usage:
//
//	ctx := autodiff.NewContext(cpu.New())
//	a := autodiff.NewLeaf(aRaw)
//	_ = ctx.SetRequiresGrad(a, true)
//	c, _ := ctx.Mul(a, a)
//	_ = ctx.BackwardGraph(c)
//	fmt.Println(a.Grad()) // 2a at index 0
package autodiff

import (
	"sync"

	"github.com/born-ml/gradcore/internal/backend/cpu"
	"github.com/born-ml/gradcore/internal/tensor"
)

// Context carries the autograd state shared by a set of operations.
// It is safe for concurrent use.
type Context struct {
	backend *cpu.CPUBackend

	mu          sync.Mutex
	noGradDepth int
	retainGraph bool
}

// NewContext creates a context computing on backend. A nil backend selects
// cpu.New().
func NewContext(backend *cpu.CPUBackend) *Context {
	if backend == nil {
		backend = cpu.New()
	}
	return &Context{backend: backend}
}

var defaultContext = sync.OnceValue(func() *Context {
	return NewContext(nil)
})

// Default returns the process-wide context.
func Default() *Context {
	return defaultContext()
}

// Backend returns the compute backend.
func (c *Context) Backend() *cpu.CPUBackend {
	return c.backend
}

// GradEnabled reports whether operators currently record the graph.
func (c *Context) GradEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.noGradDepth == 0
}

// NoGrad disables graph recording until the returned function is called.
// Calls nest: recording resumes only when every guard has been released.
// Releasing a guard more than once has no further effect.
//
//	defer ctx.NoGrad()()
func (c *Context) NoGrad() func() {
	c.mu.Lock()
	c.noGradDepth++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.noGradDepth--
			c.mu.Unlock()
		})
	}
}

// WithNoGrad runs fn with graph recording disabled.
func (c *Context) WithNoGrad(fn func() error) error {
	defer c.NoGrad()()
	return fn()
}

// SetRetainGraph controls whether backward keeps non-leaf gradient buffers.
func (c *Context) SetRetainGraph(retain bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retainGraph = retain
}

// RetainGraph reports whether backward keeps non-leaf gradient buffers.
func (c *Context) RetainGraph() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retainGraph
}

// SetRequiresGrad marks n as requiring gradients (or not). A node that
// requires gradients is not a leaf in the simple model: isLeaf = !flag.
// Only float tensors can require gradients.
func (c *Context) SetRequiresGrad(n *Node, flag bool) error {
	if flag && !n.DType().IsFloat() {
		return tensor.Errorf(tensor.ErrDType, "only float tensors can require gradients, got %s", n.DType())
	}
	n.requiresGrad = flag
	n.isLeaf = !flag
	return nil
}

// Add returns a + b with broadcasting.
func (c *Context) Add(a, b *Node) (*Node, error) {
	return c.binary(OpAdd, a, b, c.backend.Add)
}

// Sub returns a - b with broadcasting.
func (c *Context) Sub(a, b *Node) (*Node, error) {
	return c.binary(OpSub, a, b, c.backend.Sub)
}

// Mul returns a * b element-wise with broadcasting.
func (c *Context) Mul(a, b *Node) (*Node, error) {
	return c.binary(OpMul, a, b, c.backend.Mul)
}

// Div returns a / b element-wise with broadcasting. If any divisor element
// is zero nothing is computed and ErrArithmetic is returned.
func (c *Context) Div(a, b *Node) (*Node, error) {
	return c.binary(OpDiv, a, b, c.backend.Div)
}

// MatMul returns the 2-D matrix product a @ b.
func (c *Context) MatMul(a, b *Node) (*Node, error) {
	return c.binary(OpMatMul, a, b, c.backend.MatMul)
}

func (c *Context) binary(op Op, a, b *Node, forward func(x, y *tensor.RawTensor) (*tensor.RawTensor, error)) (*Node, error) {
	if a == nil || b == nil {
		return nil, tensor.Errorf(tensor.ErrAllocation, "%s: nil operand", op)
	}
	value, err := forward(a.value, b.value)
	if err != nil {
		return nil, err
	}
	out := NewLeaf(value)
	if c.GradEnabled() && (a.requiresGrad || b.requiresGrad) {
		out.requiresGrad = true
		out.isLeaf = false
		out.op = op
		out.parents = [2]*Node{a, b}
	}
	return out, nil
}

// AccumulateGrad adds g into n's gradient, allocating a zero gradient first
// if needed. It accumulates whether or not n requires gradients; backward
// passes skip such parents themselves. g must hold the same number of
// elements as n.
func (c *Context) AccumulateGrad(n *Node, g *tensor.RawTensor) error {
	if n == nil || g == nil {
		return nil
	}
	if g.NumElements() != n.value.NumElements() {
		return tensor.Errorf(tensor.ErrShape, "gradient dimensions do not match: %v (%d elements) into %v (%d elements)",
			g.Shape(), g.NumElements(), n.Shape(), n.value.NumElements())
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if err := c.ensureGrad(n); err != nil {
		return err
	}
	return c.backend.AddInPlace(n.grad, g)
}

// ZeroGrad fills n's gradient with zeros, allocating it if needed. It is a
// no-op if n does not require gradients.
func (c *Context) ZeroGrad(n *Node) error {
	if n == nil || !n.requiresGrad {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := c.ensureGrad(n); err != nil {
		return err
	}
	return c.backend.Fill(n.grad, 0)
}

// ensureGrad allocates a zero gradient. Callers hold n.mu.
func (c *Context) ensureGrad(n *Node) error {
	if n.grad != nil {
		return nil
	}
	grad, err := tensor.NewRaw(n.value.Shape(), n.value.DType())
	if err != nil {
		return err
	}
	n.grad = grad
	return nil
}
