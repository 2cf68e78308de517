package host

import "fmt"

// Sparse is a 2-D matrix in compressed-sparse-column form. Column j's
// entries occupy [ColPtr[j], ColPtr[j+1]) of RowIndex and Values.
type Sparse struct {
	Values   any // typed plane, NNZ elements
	Imag     any // nil for real matrices
	RowIndex []int
	ColPtr   []int
	Rows     int
	Cols     int
	Kind     Kind
}

// NewSparse builds a real CSC matrix and validates its layout.
func NewSparse[T Element](rows, cols int, rowIndex, colPtr []int, values []T) (*Sparse, error) {
	s := &Sparse{
		Kind:     KindFor[T](),
		Rows:     rows,
		Cols:     cols,
		RowIndex: rowIndex,
		ColPtr:   colPtr,
		Values:   values,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewComplexSparse builds a complex CSC matrix and validates its layout.
func NewComplexSparse[T Element](rows, cols int, rowIndex, colPtr []int, re, im []T) (*Sparse, error) {
	s := &Sparse{
		Kind:     KindFor[T](),
		Rows:     rows,
		Cols:     cols,
		RowIndex: rowIndex,
		ColPtr:   colPtr,
		Values:   re,
		Imag:     im,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NNZ is the number of stored entries.
func (s *Sparse) NNZ() int {
	if len(s.ColPtr) == 0 {
		return 0
	}
	return s.ColPtr[len(s.ColPtr)-1]
}

func (s *Sparse) IsComplex() bool { return s.Imag != nil }

func (s *Sparse) Shape() Shape { return Shape{s.Rows, s.Cols} }

// Validate checks the CSC invariants: len(ColPtr) == Cols+1, ColPtr is
// non-decreasing from zero, row indices lie in [0, Rows), and the value
// planes hold exactly NNZ entries.
func (s *Sparse) Validate() error {
	if s.Rows < 0 || s.Cols < 0 {
		return fmt.Errorf("invalid sparse shape %dx%d", s.Rows, s.Cols)
	}
	if len(s.ColPtr) != s.Cols+1 {
		return fmt.Errorf("column pointer has %d entries, want %d", len(s.ColPtr), s.Cols+1)
	}
	if s.ColPtr[0] != 0 {
		return fmt.Errorf("column pointer starts at %d", s.ColPtr[0])
	}
	for j := 0; j < s.Cols; j++ {
		if s.ColPtr[j+1] < s.ColPtr[j] {
			return fmt.Errorf("column pointer decreases at column %d", j)
		}
	}
	nnz := s.NNZ()
	if len(s.RowIndex) != nnz {
		return fmt.Errorf("row index has %d entries, want %d", len(s.RowIndex), nnz)
	}
	for k, r := range s.RowIndex {
		if r < 0 || r >= s.Rows {
			return fmt.Errorf("row index %d at entry %d outside [0,%d)", r, k, s.Rows)
		}
	}
	kind, n := sliceKind(s.Values)
	if kind != s.Kind || n != nnz {
		return fmt.Errorf("value plane holds %d %s entries, want %d %s", n, kind, nnz, s.Kind)
	}
	if s.Imag != nil {
		if kind, n := sliceKind(s.Imag); kind != s.Kind || n != nnz {
			return fmt.Errorf("imaginary plane holds %d %s entries, want %d %s", n, kind, nnz, s.Kind)
		}
	}
	return nil
}

// At returns the entry at (row, col); absent entries are zero.
func (s *Sparse) At(row, col int) complex128 {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return 0
	}
	for k := s.ColPtr[col]; k < s.ColPtr[col+1]; k++ {
		if s.RowIndex[k] == row {
			re := ToFloat64(elementAt(s.Values, k))
			var im float64
			if s.Imag != nil {
				im = ToFloat64(elementAt(s.Imag, k))
			}
			return complex(re, im)
		}
	}
	return 0
}

// ToDense expands the matrix into a column-major Dense of the same kind.
func (s *Sparse) ToDense() *Dense {
	d := Zeros(s.Kind, Shape{s.Rows, s.Cols}, s.IsComplex())
	for col := 0; col < s.Cols; col++ {
		for k := s.ColPtr[col]; k < s.ColPtr[col+1]; k++ {
			off := s.RowIndex[k] + col*s.Rows
			copyElement(d.re, off, s.Values, k)
			if s.Imag != nil {
				copyElement(d.im, off, s.Imag, k)
			}
		}
	}
	return d
}

func copyElement(dst any, di int, src any, si int) {
	switch d := dst.(type) {
	case []bool:
		d[di] = src.([]bool)[si]
	case []int8:
		d[di] = src.([]int8)[si]
	case []uint8:
		d[di] = src.([]uint8)[si]
	case []int16:
		d[di] = src.([]int16)[si]
	case []uint16:
		d[di] = src.([]uint16)[si]
	case []int32:
		d[di] = src.([]int32)[si]
	case []uint32:
		d[di] = src.([]uint32)[si]
	case []int64:
		d[di] = src.([]int64)[si]
	case []uint64:
		d[di] = src.([]uint64)[si]
	case []float32:
		d[di] = src.([]float32)[si]
	case []float64:
		d[di] = src.([]float64)[si]
	}
}

// SparseFromPlanes builds a CSC matrix from typed value planes. imag may be nil.
func SparseFromPlanes(rows, cols int, rowIndex, colPtr []int, values, imag any) (*Sparse, error) {
	kind, _ := sliceKind(values)
	if kind == KindInvalid {
		return nil, fmt.Errorf("unsupported plane type %T", values)
	}
	s := &Sparse{
		Kind:     kind,
		Rows:     rows,
		Cols:     cols,
		RowIndex: rowIndex,
		ColPtr:   colPtr,
		Values:   values,
		Imag:     imag,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
