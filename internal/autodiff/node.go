package autodiff

import (
	"sync"

	"github.com/born-ml/gradcore/internal/tensor"
)

// Node is a tensor that takes part in the autograd graph.
//
// A leaf is created by the user with NewLeaf. Every forward operator on a
// Context returns a fresh Node; when gradients are recorded it carries the
// operator and its two parents, so the graph is always a DAG.
type Node struct {
	value        *tensor.RawTensor
	requiresGrad bool
	isLeaf       bool
	op           Op
	parents      [2]*Node // non-owning

	mu   sync.Mutex // guards grad
	grad *tensor.RawTensor
}

// NewLeaf wraps value as a leaf node that does not require gradients.
func NewLeaf(value *tensor.RawTensor) *Node {
	return &Node{value: value, isLeaf: true}
}

// Value returns the node's data.
func (n *Node) Value() *tensor.RawTensor { return n.value }

// Shape returns the shape of the node's data.
func (n *Node) Shape() tensor.Shape { return n.value.Shape() }

// DType returns the data type of the node's data.
func (n *Node) DType() tensor.DataType { return n.value.DType() }

// RequiresGrad reports whether gradients are accumulated into this node.
func (n *Node) RequiresGrad() bool { return n.requiresGrad }

// IsLeaf reports whether the node was created by the user rather than by
// an operator.
func (n *Node) IsLeaf() bool { return n.isLeaf }

// Op returns the operator that produced the node, or OpNone.
func (n *Node) Op() Op { return n.op }

// Parents returns the operator inputs. Both are nil for leaves.
func (n *Node) Parents() [2]*Node { return n.parents }

// Grad returns the accumulated gradient, or nil if none has been allocated.
// The gradient is contiguous and has the node's shape and dtype.
func (n *Node) Grad() *tensor.RawTensor {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.grad
}

// ClearGrad frees and clears the gradient buffer. The next accumulation
// starts again from zero.
func (n *Node) ClearGrad() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.grad != nil {
		n.grad.Free()
		n.grad = nil
	}
}

// Free releases the node's data and gradient. Parents are not touched.
func (n *Node) Free() {
	if n == nil {
		return
	}
	n.ClearGrad()
	n.value.Free()
}
