package host

import "fmt"

// Cell is an N-dimensional array of heterogeneous values. Elements are
// stored column-major and addressed by base-0 coordinates, so At(r, c)
// is the foreign element {r+1, c+1}.
type Cell struct {
	shape Shape
	elems []Value
}

// NewCell allocates an empty cell array of the given shape.
func NewCell(shape Shape) *Cell {
	return &Cell{shape: shape.Clone(), elems: make([]Value, shape.Size())}
}

func (c *Cell) Shape() Shape { return c.shape.Clone() }
func (c *Cell) Len() int     { return len(c.elems) }

// Index returns element i in column-major order.
func (c *Cell) Index(i int) Value { return c.elems[i] }

// At returns the element at base-0 coordinates, or nil when out of range.
func (c *Cell) At(coords ...int) Value {
	off, ok := c.shape.Offset(coords...)
	if !ok {
		return nil
	}
	return c.elems[off]
}

// Set stores v at base-0 coordinates.
func (c *Cell) Set(coords []int, v Value) error {
	off, ok := c.shape.Offset(coords...)
	if !ok {
		return fmt.Errorf("coordinates %v outside cell shape %s", coords, c.shape)
	}
	c.elems[off] = v
	return nil
}
