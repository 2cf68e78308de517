package transcoder

import (
	"strconv"
	"strings"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/transcoder/internal/abi"
)

// DecodeDims reads an array's extents as reported, without reordering or
// padding. A one-axis shape [n] reads as n×1 through Shape.Rows and
// Shape.Cols. The product must equal the element count.
func DecodeDims(arr mx.Array) (host.Shape, error) {
	dims := arr.Dimensions()
	if len(dims) == 0 {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil, "array reports no dimensions")
	}
	n, ok := abi.ElementCount(dims)
	if !ok {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil, "invalid dimensions %v", dims)
	}
	if n != arr.NumberOfElements() {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
			"dimensions %v describe %d elements, array holds %d", dims, n, arr.NumberOfElements())
	}
	return host.Shape(append([]int(nil), dims...)), nil
}

// EncodeDims returns the foreign extents for a host shape. One-axis shapes
// become columns.
func EncodeDims(shape host.Shape) ([]int, error) {
	switch len(shape) {
	case 0:
		return []int{1, 1}, nil
	case 1:
		shape = host.Shape{shape[0], 1}
	}
	if _, ok := abi.ElementCount(shape); !ok {
		return nil, errors.InvalidInput(errors.PhaseEncode, "invalid shape %v", []int(shape))
	}
	return append([]int(nil), shape...), nil
}

// CoordsForLinearIndex returns the base-0 coordinates of column-major
// element i.
func CoordsForLinearIndex(shape host.Shape, i int) []int {
	coords := make([]int, len(shape))
	for axis, extent := range shape {
		if extent == 0 {
			break
		}
		coords[axis] = i % extent
		i /= extent
	}
	return coords
}

// LinearIndex is the inverse of CoordsForLinearIndex.
func LinearIndex(shape host.Shape, coords []int) (int, bool) {
	return shape.Offset(coords...)
}

// ToForeignCoords converts base-0 coordinates to the engine's base-1.
func ToForeignCoords(coords []int) []int {
	out := make([]int, len(coords))
	for i, c := range coords {
		out[i] = c + 1
	}
	return out
}

// FormatCoords renders coordinates as a subscript list: "2, 1".
func FormatCoords(coords []int) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ", ")
}
