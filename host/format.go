package host

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a value for display, one line per row for 2-D data.
func Format(v Value) string {
	var b strings.Builder
	format(&b, v, "")
	return b.String()
}

func format(b *strings.Builder, v Value, indent string) {
	switch x := v.(type) {
	case nil:
		b.WriteString("[]")
	case Scalar:
		b.WriteString(formatScalar(x))
	case Text:
		b.WriteString(strconv.Quote(string(x)))
	case TextList:
		for i, s := range x {
			if i > 0 {
				b.WriteByte('\n')
				b.WriteString(indent)
			}
			b.WriteString(strconv.Quote(s))
		}
	case *Dense:
		formatDense(b, x, indent)
	case *Sparse:
		fmt.Fprintf(b, "sparse %dx%d %s, %d stored", x.Rows, x.Cols, x.Kind, x.NNZ())
		for col := 0; col < x.Cols; col++ {
			for k := x.ColPtr[col]; k < x.ColPtr[col+1]; k++ {
				b.WriteByte('\n')
				b.WriteString(indent)
				s := Scalar{Kind: x.Kind, Re: elementAt(x.Values, k)}
				if x.Imag != nil {
					s.Im = elementAt(x.Imag, k)
				}
				fmt.Fprintf(b, "  (%d,%d) %s", x.RowIndex[k]+1, col+1, formatScalar(s))
			}
		}
	case Struct:
		b.WriteString("struct")
		for _, name := range x.Fields() {
			b.WriteByte('\n')
			b.WriteString(indent)
			b.WriteString("  ")
			b.WriteString(name)
			b.WriteString(": ")
			format(b, x[name], indent+"    ")
		}
	case *Cell:
		fmt.Fprintf(b, "cell %s", x.shape)
		coords := make([]int, len(x.shape))
		for i := 0; i < x.Len(); i++ {
			b.WriteByte('\n')
			b.WriteString(indent)
			b.WriteString("  {")
			for j, c := range coords {
				if j > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.Itoa(c + 1))
			}
			b.WriteString("} ")
			format(b, x.elems[i], indent+"    ")
			advance(coords, x.shape)
		}
	case *FunctionRef:
		b.WriteString("@")
		b.WriteString(x.Name)
	default:
		fmt.Fprintf(b, "%v", x)
	}
}

// advance steps column-major coordinates to the next element.
func advance(coords []int, shape Shape) {
	for i := range coords {
		coords[i]++
		if coords[i] < shape[i] {
			return
		}
		coords[i] = 0
	}
}

func formatDense(b *strings.Builder, d *Dense, indent string) {
	if d.Len() == 0 {
		fmt.Fprintf(b, "[] %s %s", d.shape, d.kind)
		return
	}
	if len(d.shape) > 2 {
		fmt.Fprintf(b, "%s %s array", d.shape, d.kind)
		return
	}
	rows, cols := d.shape.Rows(), d.shape.Cols()
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
			b.WriteString(indent)
		}
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatScalar(d.scalarAt(r + c*rows)))
		}
	}
}

func formatScalar(s Scalar) string {
	re := formatElement(s.Re)
	if s.Im == nil {
		return re
	}
	im := formatElement(s.Im)
	if !strings.HasPrefix(im, "-") {
		im = "+" + im
	}
	return re + im + "i"
}

func formatElement(v any) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
