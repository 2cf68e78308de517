package host

import "fmt"

// Dense is an N-dimensional array stored column-major. The real plane and
// the optional imaginary plane are typed slices ([]float64, []int16, ...)
// of identical length.
type Dense struct {
	re    any
	im    any
	shape Shape
	kind  Kind
}

// NewDense wraps data as a real array of the given shape. data is not copied.
func NewDense[T Element](shape Shape, data []T) (*Dense, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return &Dense{kind: KindFor[T](), shape: shape.Clone(), re: data}, nil
}

// NewComplexDense wraps re and im as the planes of a complex array.
func NewComplexDense[T Element](shape Shape, re, im []T) (*Dense, error) {
	if len(re) != len(im) {
		return nil, fmt.Errorf("real plane has %d elements, imaginary plane %d", len(re), len(im))
	}
	if err := checkShape(shape, len(re)); err != nil {
		return nil, err
	}
	return &Dense{kind: KindFor[T](), shape: shape.Clone(), re: re, im: im}, nil
}

// Zeros allocates a zero-filled array.
func Zeros(kind Kind, shape Shape, complex bool) *Dense {
	d := &Dense{kind: kind, shape: shape.Clone(), re: makePlane(kind, shape.Size())}
	if complex {
		d.im = makePlane(kind, shape.Size())
	}
	return d
}

// Vector is shorthand for an n×1 column.
func Vector[T Element](data ...T) *Dense {
	return &Dense{kind: KindFor[T](), shape: Shape{len(data), 1}, re: data}
}

func checkShape(shape Shape, n int) error {
	if len(shape) == 0 || !shape.Valid() {
		return fmt.Errorf("invalid shape %v", []int(shape))
	}
	if shape.Size() != n {
		return fmt.Errorf("shape %s needs %d elements, got %d", shape, shape.Size(), n)
	}
	return nil
}

func (d *Dense) Kind() Kind      { return d.kind }
func (d *Dense) Shape() Shape    { return d.shape.Clone() }
func (d *Dense) Len() int        { return d.shape.Size() }
func (d *Dense) IsComplex() bool { return d.im != nil }
func (d *Dense) Real() any       { return d.re }
func (d *Dense) Imag() any       { return d.im }
func (d *Dense) Ndims() int      { return len(d.shape) }

// Values returns the real plane when it holds T.
func Values[T Element](d *Dense) ([]T, bool) {
	s, ok := d.re.([]T)
	return s, ok
}

// ImagValues returns the imaginary plane when it holds T.
func ImagValues[T Element](d *Dense) ([]T, bool) {
	s, ok := d.im.([]T)
	return s, ok
}

// Element returns element i of the real plane (column-major) as a Go scalar.
func (d *Dense) Element(i int) any { return elementAt(d.re, i) }

// ImagElement returns element i of the imaginary plane, or nil.
func (d *Dense) ImagElement(i int) any {
	if d.im == nil {
		return nil
	}
	return elementAt(d.im, i)
}

// At returns the element at base-0 coordinates.
func (d *Dense) At(coords ...int) (Scalar, bool) {
	off, ok := d.shape.Offset(coords...)
	if !ok {
		return Scalar{}, false
	}
	return d.scalarAt(off), true
}

func (d *Dense) scalarAt(i int) Scalar {
	return Scalar{Kind: d.kind, Re: d.Element(i), Im: d.ImagElement(i)}
}

// Scalar collapses a one-element array.
func (d *Dense) Scalar() (Scalar, bool) {
	if d.Len() != 1 {
		return Scalar{}, false
	}
	return d.scalarAt(0), true
}

// Float64s converts the real plane to float64.
func (d *Dense) Float64s() []float64 {
	out := make([]float64, d.Len())
	for i := range out {
		out[i] = ToFloat64(d.Element(i))
	}
	return out
}

// Ints converts the real plane to int. Used for dimension vectors.
func (d *Dense) Ints() []int {
	out := make([]int, d.Len())
	for i := range out {
		out[i] = int(ToFloat64(d.Element(i)))
	}
	return out
}

// FromPlanes wraps typed planes of a common element type. im may be nil.
func FromPlanes(shape Shape, re, im any) (*Dense, error) {
	kind, n := sliceKind(re)
	if kind == KindInvalid {
		return nil, fmt.Errorf("unsupported plane type %T", re)
	}
	if im != nil {
		if ik, in := sliceKind(im); ik != kind || in != n {
			return nil, fmt.Errorf("imaginary plane %T[%d] does not match real plane %T[%d]", im, in, re, n)
		}
	}
	if err := checkShape(shape, n); err != nil {
		return nil, err
	}
	return &Dense{kind: kind, shape: shape.Clone(), re: re, im: im}, nil
}
