package tensor

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const printLineWidth = 80

// printFormat describes how every element of one tensor is rendered.
type printFormat struct {
	width int
	scale float64
	verb  byte // 'g' (integral values), 'f' (fixed) or 'e' (scientific)
}

// Pretty renders the tensor's values the way they appear on a console:
// fixed-point with four decimals (integral values without a decimal point),
// one row per line, followed by a footer naming the device, scalar type and
// sizes, e.g. "[ CPUHalfType{3,3} ]".
func (t *Tensor[B]) Pretty() string {
	return formatValues(t.Float64s(), t.Shape(), t.DType(), t.Device())
}

// Fprint writes Pretty's rendering of t followed by a newline to w.
func (t *Tensor[B]) Fprint(w io.Writer) error {
	_, err := io.WriteString(w, t.Pretty()+"\n")
	return err
}

func formatValues(values []float64, shape Shape, dtype DataType, device Device) string {
	var sb strings.Builder
	f := choosePrintFormat(values)

	switch len(shape) {
	case 0:
		sb.WriteString(formatElement(values[0], f, 0))
		sb.WriteByte('\n')
	case 1:
		writeScale(&sb, f)
		for _, v := range values {
			sb.WriteString(formatElement(v, f, f.width))
			sb.WriteByte('\n')
		}
	default:
		writeScale(&sb, f)
		rows, cols := shape[len(shape)-2], shape[len(shape)-1]
		lead := shape[:len(shape)-2]
		matrices := len(values) / (rows * cols)
		for m := 0; m < matrices; m++ {
			if len(lead) > 0 {
				if m > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(matrixHeader(m, lead))
			}
			writeMatrix(&sb, values[m*rows*cols:(m+1)*rows*cols], rows, cols, f)
		}
	}

	sb.WriteString("[ ")
	sb.WriteString(device.String())
	sb.WriteString(dtype.TypeName())
	sb.WriteString("Type{")
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	sb.WriteString(strings.Join(dims, ","))
	sb.WriteString("} ]")
	return sb.String()
}

// choosePrintFormat picks width and notation from the magnitude range of
// the finite values.
func choosePrintFormat(values []float64) printFormat {
	intMode := true
	expMin, expMax := 1.0, 1.0
	seen := false
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		if v != math.Ceil(v) {
			intMode = false
		}
		a := math.Abs(v)
		if !seen {
			expMin, expMax, seen = a, a, true
			continue
		}
		expMin = math.Min(expMin, a)
		expMax = math.Max(expMax, a)
	}
	if seen {
		expMin = digitsOf(expMin)
		expMax = digitsOf(expMax)
	}

	switch {
	case intMode && expMax > 9:
		return printFormat{width: 11, scale: 1, verb: 'e'}
	case intMode:
		return printFormat{width: int(expMax) + 1, scale: 1, verb: 'g'}
	case expMax-expMin > 4:
		return printFormat{width: 11, scale: 1, verb: 'e'}
	case expMax > 5 || expMax < 0:
		return printFormat{width: 7, scale: math.Pow(10, expMax-1), verb: 'f'}
	case expMax == 0:
		return printFormat{width: 7, scale: 1, verb: 'f'}
	default:
		return printFormat{width: int(expMax) + 6, scale: 1, verb: 'f'}
	}
}

// digitsOf returns the number of integer digits of a (1 for zero).
func digitsOf(a float64) float64 {
	if a == 0 {
		return 1
	}
	return math.Floor(math.Log10(a)) + 1
}

func writeScale(sb *strings.Builder, f printFormat) {
	if f.scale != 1 {
		fmt.Fprintf(sb, "%g *\n", f.scale)
	}
}

func formatElement(v float64, f printFormat, width int) string {
	var s string
	switch {
	case math.IsNaN(v):
		s = "nan"
	case math.IsInf(v, 1):
		s = "inf"
	case math.IsInf(v, -1):
		s = "-inf"
	case f.verb == 'g':
		s = strconv.FormatFloat(v, 'g', 6, 64)
	case f.verb == 'e':
		s = strconv.FormatFloat(v, 'e', 4, 64)
	default:
		s = strconv.FormatFloat(v/f.scale, 'f', 4, 64)
	}
	if len(s) < width {
		s = strings.Repeat(" ", width-len(s)) + s
	}
	return s
}

// writeMatrix prints a rows x cols block, splitting wide matrices into
// column groups that fit the line width.
func writeMatrix(sb *strings.Builder, values []float64, rows, cols int, f printFormat) {
	perLine := printLineWidth / (f.width + 1)
	if perLine < 1 {
		perLine = 1
	}
	for first := 0; first < cols; first += perLine {
		last := min(first+perLine, cols) - 1
		if perLine < cols {
			if first > 0 {
				sb.WriteByte('\n')
			}
			if first == last {
				fmt.Fprintf(sb, "Columns %d\n", first+1)
			} else {
				fmt.Fprintf(sb, "Columns %d to %d\n", first+1, last+1)
			}
		}
		for r := 0; r < rows; r++ {
			for c := first; c <= last; c++ {
				sb.WriteString(formatElement(values[r*cols+c], f, f.width))
				if c != last {
					sb.WriteByte(' ')
				}
			}
			sb.WriteByte('\n')
		}
	}
}

// matrixHeader renders the leading indices of matrix m, e.g. "(1,2,.,.) = ".
func matrixHeader(m int, lead Shape) string {
	idx := make([]string, len(lead))
	for i := len(lead) - 1; i >= 0; i-- {
		idx[i] = strconv.Itoa(m%lead[i] + 1)
		m /= lead[i]
	}
	return "(" + strings.Join(idx, ",") + ",.,.) = \n"
}
