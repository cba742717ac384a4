package tensor

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// printFormat is the number format shared by every element of one print.
type printFormat struct {
	width     int
	precision int
	verb      byte // 'f' or 'e'
}

// choosePrintFormat picks one format for all of data:
//   - all integral values print without decimals, or in scientific
//     notation when the largest magnitude reaches 1e10
//   - otherwise fixed-point with 4 decimals, or scientific notation when
//     the magnitudes span more than four orders
func choosePrintFormat(data []float64) printFormat {
	intMode := true
	for _, v := range data {
		if !math.IsInf(v, 0) && !math.IsNaN(v) && v != math.Floor(v) {
			intMode = false
			break
		}
	}

	var expMin, expMax float64
	found := false
	for _, v := range data {
		z := math.Abs(v)
		if math.IsInf(z, 0) || math.IsNaN(z) || z == 0 {
			continue
		}
		if !found {
			expMin, expMax, found = z, z, true
			continue
		}
		expMin = min(expMin, z)
		expMax = max(expMax, z)
	}
	if found {
		expMin = math.Floor(math.Log10(expMin))
		expMax = math.Floor(math.Log10(expMax))
	}

	scientific := printFormat{width: 11, precision: 4, verb: 'e'}
	if intMode {
		if expMax > 9 {
			return scientific
		}
		return printFormat{width: int(expMax) + 2, precision: 0, verb: 'f'}
	}
	if expMax-expMin > 4 {
		return scientific
	}
	const precision = 4
	return printFormat{width: int(max(expMax, 0)) + precision + 2, precision: precision, verb: 'f'}
}

func (f printFormat) write(w *bufio.Writer, v float64) {
	s := strconv.FormatFloat(v, f.verb, f.precision, 64)
	if pad := f.width - len(s); pad > 0 {
		w.WriteString(strings.Repeat(" ", pad))
	}
	w.WriteString(s)
}

// Fprint writes t to w as nested bracketed rows followed by a shape
// trailer, e.g.
//
//	[[ 1,  2],
//	 [ 3,  4]]
//	[Tensor of shape: Shape[2, 2]]
func Fprint(w io.Writer, t *RawTensor) error {
	bw := bufio.NewWriter(w)
	if t == nil {
		bw.WriteString("[ Tensor (NULL) ]\n")
		return bw.Flush()
	}

	vals, err := float64s(t)
	if err != nil {
		return err
	}
	shape := t.Shape()
	switch {
	case len(vals) == 0:
		bw.WriteString("[]\n")
	case len(shape) == 0:
		fmt.Fprintf(bw, "%.4f\n", vals[0])
	default:
		f := choosePrintFormat(vals)
		next := 0
		printNested(bw, shape, 0, vals, &next, f)
		bw.WriteByte('\n')
	}

	fmt.Fprintf(bw, "[Tensor of shape: %s]\n", shape)
	return bw.Flush()
}

// Format returns the text Fprint would write.
func Format(t *RawTensor) (string, error) {
	var sb strings.Builder
	if err := Fprint(&sb, t); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func printNested(w *bufio.Writer, shape Shape, axis int, vals []float64, next *int, f printFormat) {
	w.WriteByte('[')
	n := shape[axis]
	if axis == len(shape)-1 {
		for i := 0; i < n; i++ {
			if i > 0 {
				w.WriteString(", ")
			}
			f.write(w, vals[*next])
			*next++
		}
	} else {
		for i := 0; i < n; i++ {
			if i > 0 {
				w.WriteString(",\n")
				w.WriteString(strings.Repeat(" ", axis+1))
			}
			printNested(w, shape, axis+1, vals, next, f)
		}
	}
	w.WriteByte(']')
}

// float64s returns the logical elements of t in row-major order, widened
// to float64.
func float64s(t *RawTensor) ([]float64, error) {
	switch t.DType() {
	case Float32:
		return widen[float32](t)
	case Float64:
		return ToSlice[float64](t)
	case Int32:
		return widen[int32](t)
	default:
		return nil, Errorf(ErrDType, "cannot print dtype %s", t.DType())
	}
}

func widen[T DType](t *RawTensor) ([]float64, error) {
	src, err := ToSlice[T](t)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out, nil
}
