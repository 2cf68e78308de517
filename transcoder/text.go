package transcoder

import (
	"strings"
	"unicode/utf16"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
)

// DecodeText converts a character array. A single row yields host.Text;
// several rows yield host.TextList. Trailing blank and NUL padding is
// trimmed from every row.
func DecodeText(arr mx.Array) (host.Value, error) {
	if arr.ClassID() != mx.ClassChar {
		return nil, errors.UnsupportedType(errors.PhaseDecode, "", arr.ClassID().String())
	}
	shape, err := DecodeDims(arr)
	if err != nil {
		return nil, err
	}
	n := shape.Size()
	if n == 0 {
		return host.Text(""), nil
	}
	rows := shape.Rows()
	cols := n / rows

	mem, err := arr.RealData()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindResource, err, "character plane")
	}
	if mem == nil || mem.Size() != uint32(n*mx.CharSize) {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
			"character plane does not hold %d characters", n)
	}

	grid := host.Shape{rows, cols}
	out := make([]string, rows)
	units := make([]uint16, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			off, _ := LinearIndex(grid, []int{r, c})
			u, err := mem.ReadU16(uint32(off * mx.CharSize))
			if err != nil {
				return nil, errors.Wrap(errors.PhaseDecode, errors.KindShapeMismatch, err, "read character plane")
			}
			units[c] = u
		}
		out[r] = strings.TrimRight(string(utf16.Decode(units)), " \x00")
	}
	if rows == 1 {
		return host.Text(out[0]), nil
	}
	return host.TextList(out), nil
}

// EncodeText creates a caller-owned character matrix with one row per
// string.
func EncodeText(f mx.Factory, rows []string) (mx.Array, error) {
	arr, err := f.CreateCharArray(rows)
	if err != nil {
		return nil, errors.Resource(errors.PhaseEncode, "CreateCharArray", err)
	}
	if arr == nil {
		return nil, errors.Resource(errors.PhaseEncode, "CreateCharArray", nil)
	}
	return arr, nil
}
