package host

import (
	"strconv"
	"strings"
)

// Shape lists per-axis extents in column-major axis order: axis 0 varies
// fastest in storage. The first two entries are rows and columns.
type Shape []int

// Size is the element count (product of extents).
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

func (s Shape) Rows() int {
	if len(s) == 0 {
		return 1
	}
	return s[0]
}

func (s Shape) Cols() int {
	if len(s) < 2 {
		return 1
	}
	return s[1]
}

func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Shape) Clone() Shape {
	return append(Shape(nil), s...)
}

// Valid reports whether every extent is non-negative.
func (s Shape) Valid() bool {
	for _, d := range s {
		if d < 0 {
			return false
		}
	}
	return true
}

// Offset maps base-0 coordinates to a column-major storage offset.
// Missing trailing coordinates are treated as zero.
func (s Shape) Offset(coords ...int) (int, bool) {
	if len(coords) > len(s) {
		return 0, false
	}
	off, stride := 0, 1
	for i, d := range s {
		c := 0
		if i < len(coords) {
			c = coords[i]
		}
		if c < 0 || c >= d {
			return 0, false
		}
		off += c * stride
		stride *= d
	}
	return off, true
}

// String renders the shape as "2x3x4".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}
