package autodiff

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/gradcore/internal/tensor"
)

// Backward propagates root's gradient one hop, into its direct parents.
//
// It is a no-op unless root requires gradients. If root has no gradient yet,
// one is allocated and index 0 is seeded with 1 (the scalar-loss
// convention; seed non-scalar roots with AccumulateGrad first). Parents are
// visited in order 0 then 1. Unless RetainGraph is set, root's gradient is
// freed afterwards. Deeper graphs need one call per node or BackwardGraph.
func (c *Context) Backward(root *Node) error {
	if root == nil || !root.requiresGrad {
		return nil
	}
	if err := c.seed(root); err != nil {
		return err
	}
	if err := c.propagate(root); err != nil {
		return err
	}
	if !c.RetainGraph() {
		root.ClearGrad()
	}
	return nil
}

// BackwardGraph propagates root's gradient through the whole graph down to
// the leaves.
//
// Seeding is the same as Backward. Nodes are visited in reverse topological
// order, so each node propagates only after every consumer has contributed
// to its gradient. Unless RetainGraph is set, gradients of non-leaf nodes
// (including root) are freed once propagated; leaf gradients are kept.
func (c *Context) BackwardGraph(root *Node) error {
	if root == nil || !root.requiresGrad {
		return nil
	}
	if err := c.seed(root); err != nil {
		return err
	}

	retain := c.RetainGraph()
	for _, n := range reverseTopological(root) {
		if n.op == OpNone {
			continue
		}
		if err := c.propagate(n); err != nil {
			return err
		}
		if !retain {
			n.ClearGrad()
		}
	}
	return nil
}

// seed allocates root's gradient with index 0 set to 1 if it is absent.
func (c *Context) seed(root *Node) error {
	root.mu.Lock()
	defer root.mu.Unlock()
	if root.grad != nil {
		return nil
	}
	if err := c.ensureGrad(root); err != nil {
		return err
	}
	if root.grad.NumElements() == 0 {
		return nil
	}
	switch root.grad.DType() {
	case tensor.Float32:
		root.grad.AsFloat32()[0] = 1
	case tensor.Float64:
		root.grad.AsFloat64()[0] = 1
	}
	return nil
}

// propagate accumulates n's gradient contribution into each parent that
// requires gradients. Nodes without an operator have nothing to propagate.
func (c *Context) propagate(n *Node) error {
	if n.op == OpNone {
		return nil
	}
	rule, err := n.op.Rule()
	if err != nil {
		return err
	}
	grad := n.Grad()
	if grad == nil {
		return nil
	}

	a, b := n.parents[0], n.parents[1]
	for i, p := range n.parents {
		if p == nil || !p.requiresGrad {
			continue
		}
		g, err := rule.Grad(c.backend, grad, a.value, b.value, i)
		if err != nil {
			return err
		}
		klog.V(4).InfoS("Backward", "op", rule.Name(), "parent", i, "shape", []int(p.Shape()))
		err = c.AccumulateGrad(p, g)
		g.Free()
		if err != nil {
			return err
		}
	}
	return nil
}

// reverseTopological returns the nodes reachable from root through parents
// that require gradients, ordered so every node precedes its parents.
func reverseTopological(root *Node) []*Node {
	type frame struct {
		n    *Node
		next int
	}
	visited := map[*Node]bool{root: true}
	stack := []frame{{n: root}}
	var order []*Node

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.n.parents) {
			p := top.n.parents[top.next]
			top.next++
			if p != nil && p.requiresGrad && !visited[p] {
				visited[p] = true
				stack = append(stack, frame{n: p})
			}
			continue
		}
		order = append(order, top.n)
		stack = stack[:len(stack)-1]
	}

	// Post-order puts parents first; reverse it.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
