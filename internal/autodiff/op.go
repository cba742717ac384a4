package autodiff

import (
	"errors"

	"github.com/born-ml/gradcore/internal/autodiff/ops"
	"github.com/born-ml/gradcore/internal/tensor"
)

// ErrUnknownOp is returned when an operator has no gradient rule.
var ErrUnknownOp = errors.New("unknown operator")

// Op identifies the operator that produced a node.
type Op int

// Recorded operators.
const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMatMul
)

// String returns the operator name.
func (op Op) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpMatMul:
		return "matmul"
	default:
		return "unknown"
	}
}

// Rule returns the gradient rule of the operator. OpNone and values outside
// the enumeration have no rule.
func (op Op) Rule() (ops.Rule, error) {
	switch op {
	case OpAdd:
		return ops.Add{}, nil
	case OpSub:
		return ops.Sub{}, nil
	case OpMul:
		return ops.Mul{}, nil
	case OpDiv:
		return ops.Div{}, nil
	case OpMatMul:
		return ops.MatMul{}, nil
	default:
		return nil, tensor.Errorf(ErrUnknownOp, "no gradient rule for operator %s (%d)", op, int(op))
	}
}
