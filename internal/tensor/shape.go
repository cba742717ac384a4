package tensor

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Shape holds the size of each axis, outermost first. A zero-length shape
// is a scalar.
type Shape []int

// NumElements returns the product of the dims; 1 for a scalar.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Validate reports the first negative dim.
func (s Shape) Validate() error {
	if i := slices.IndexFunc(s, func(d int) bool { return d < 0 }); i >= 0 {
		return fmt.Errorf("dim %d is negative (%d)", i, s[i])
	}
	return nil
}

// Equal reports whether both shapes have the same dims.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s, other)
}

// Clone returns an independent copy. A nil shape clones to an empty one.
func (s Shape) Clone() Shape {
	return append(Shape{}, s...)
}

// ComputeStrides returns row-major element strides: the innermost axis has
// stride 1 and each outer axis steps over everything inside it.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	step := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = step
		step *= s[i]
	}
	return strides
}

// String formats the shape as Shape[d0, d1, ...].
func (s Shape) String() string {
	var sb strings.Builder
	sb.WriteString("Shape[")
	for i, d := range s {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(d))
	}
	sb.WriteByte(']')
	return sb.String()
}

// dimFromRight returns the dim i axes from the end, or 1 past the front.
func (s Shape) dimFromRight(i int) int {
	if i >= len(s) {
		return 1
	}
	return s[len(s)-1-i]
}

// BroadcastShapes aligns a and b on their trailing axes and returns the
// shape both expand to. Missing leading axes count as 1; a pair of dims is
// compatible when equal or when either is 1. The flag reports whether
// either operand has to be expanded.
//
//	[3, 1] and [3, 5] -> [3, 5], true
//	[5]    and [3, 5] -> [3, 5], true
//	[3, 5] and [3, 5] -> [3, 5], false
//	[3, 4] and [3, 5] -> error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	rank := max(len(a), len(b))
	out := make(Shape, rank)
	expand := len(a) != len(b)
	for i := range rank {
		da, db := a.dimFromRight(i), b.dimFromRight(i)
		d := da
		switch {
		case da == db:
		case da == 1:
			d, expand = db, true
		case db == 1:
			expand = true
		default:
			return nil, false, fmt.Errorf("cannot broadcast %v with %v: axis %d has %d vs %d",
				a, b, rank-1-i, da, db)
		}
		out[rank-1-i] = d
	}
	return out, expand, nil
}
