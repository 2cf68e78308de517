package engine

import (
	"fmt"
	"math/cmplx"

	"github.com/wippyai/mxbridge/mx"
)

// operand is an array's values widened to complex128.
type operand struct {
	class   mx.ClassID
	dims    []int
	vals    []complex128
	complex bool
}

func (e *Engine) operand(a *Array) (*operand, error) {
	if a.sparse {
		return nil, fmt.Errorf("Operation is not supported for sparse arrays.")
	}
	if _, ok := classWidths[a.class]; !ok {
		return nil, fmt.Errorf("Operator is not supported for operands of type '%s'.", a.Class())
	}
	re, err := a.Float64s()
	if err != nil {
		return nil, err
	}
	im, err := a.Imag64s()
	if err != nil {
		return nil, err
	}
	op := &operand{class: a.class, dims: a.Dimensions(), vals: make([]complex128, len(re)), complex: a.complex}
	for i, v := range re {
		var iv float64
		if im != nil {
			iv = im[i]
		}
		op.vals[i] = complex(v, iv)
	}
	return op, nil
}

func isInteger(c mx.ClassID) bool { return c >= mx.ClassInt8 && c <= mx.ClassUint64 }

// resultClass applies the engine's class combination rules.
func resultClass(a, b mx.ClassID) (mx.ClassID, error) {
	switch {
	case isInteger(a) && isInteger(b):
		if a != b {
			return 0, fmt.Errorf("Integers can only be combined with integers of the same class, or scalar doubles.")
		}
		return a, nil
	case isInteger(a):
		if b != mx.ClassDouble && b != mx.ClassLogical && b != mx.ClassChar {
			return 0, fmt.Errorf("Integers can only be combined with integers of the same class, or scalar doubles.")
		}
		return a, nil
	case isInteger(b):
		return resultClass(b, a)
	case a == mx.ClassSingle || b == mx.ClassSingle:
		return mx.ClassSingle, nil
	}
	return mx.ClassDouble, nil
}

func (e *Engine) result(class mx.ClassID, dims []int, vals []complex128) (*Array, error) {
	re := make([]float64, len(vals))
	var im []float64
	for i, v := range vals {
		re[i] = real(v)
		if imag(v) != 0 && im == nil {
			im = make([]float64, len(vals))
		}
		if im != nil {
			im[i] = imag(v)
		}
	}
	return e.NewNumeric(class, dims, re, im)
}

func (e *Engine) negate(a *Array) (*Array, error) {
	op, err := e.operand(a)
	if err != nil {
		return nil, err
	}
	class := op.class
	if class == mx.ClassLogical || class == mx.ClassChar {
		class = mx.ClassDouble
	}
	for i := range op.vals {
		op.vals[i] = -op.vals[i]
	}
	return e.result(class, op.dims, op.vals)
}

func (e *Engine) arith(opName string, a, b *Array) (*Array, error) {
	l, err := e.operand(a)
	if err != nil {
		return nil, err
	}
	r, err := e.operand(b)
	if err != nil {
		return nil, err
	}
	ls, rs := len(l.vals) == 1, len(r.vals) == 1
	class, err := resultClass(l.class, r.class)
	if err != nil {
		return nil, err
	}

	switch opName {
	case "*":
		if !ls && !rs {
			return e.matmul(class, l, r)
		}
		opName = ".*"
	case "/":
		if !rs {
			return nil, fmt.Errorf("Matrix right division is not supported.")
		}
		opName = "./"
	}

	dims := l.dims
	switch {
	case ls && !rs:
		dims = r.dims
	case !ls && !rs && !sameDims(l.dims, r.dims):
		return nil, fmt.Errorf("Arrays have incompatible sizes for this operation.")
	}
	n := numel(dims)
	out := make([]complex128, n)
	for i := range out {
		x, y := l.vals[pick(ls, i)], r.vals[pick(rs, i)]
		switch opName {
		case "+":
			out[i] = x + y
		case "-":
			out[i] = x - y
		case ".*":
			out[i] = x * y
		case "./":
			out[i] = divide(x, y)
		}
	}
	return e.result(class, dims, out)
}

func pick(scalar bool, i int) int {
	if scalar {
		return 0
	}
	return i
}

// divide keeps real division IEEE exact: 1/0 is Inf, not NaN+NaNi.
func divide(x, y complex128) complex128 {
	if imag(x) == 0 && imag(y) == 0 {
		return complex(real(x)/real(y), 0)
	}
	if imag(y) == 0 {
		return complex(real(x)/real(y), imag(x)/real(y))
	}
	if y == 0 {
		return cmplx.Inf()
	}
	return x / y
}

func sameDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (e *Engine) matmul(class mx.ClassID, l, r *operand) (*Array, error) {
	if len(l.dims) != 2 || len(r.dims) != 2 {
		return nil, fmt.Errorf("Arguments must be 2-D, or at least one argument must be scalar.")
	}
	m, k, n := l.dims[0], l.dims[1], r.dims[1]
	if r.dims[0] != k {
		return nil, fmt.Errorf("Incorrect dimensions for matrix multiplication. Check that the number of columns in the first matrix matches the number of rows in the second matrix.")
	}
	out := make([]complex128, m*n)
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			var sum complex128
			for p := 0; p < k; p++ {
				sum += l.vals[i+p*m] * r.vals[p+j*k]
			}
			out[i+j*m] = sum
		}
	}
	return e.result(class, []int{m, n}, out)
}

// concat evaluates [a b; c d] for numeric, logical and char operands.
func (e *Engine) concat(m *matrixExpr) (*Array, error) {
	if m.cell {
		return e.cellLiteral(m)
	}
	var rows [][]*operand
	for _, row := range m.rows {
		var ops []*operand
		for _, n := range row {
			a, err := e.eval(n)
			if err != nil {
				return nil, err
			}
			op, err := e.operand(a)
			a.Destroy()
			if err != nil {
				return nil, err
			}
			if numel(op.dims) == 0 {
				continue
			}
			if len(op.dims) != 2 {
				return nil, fmt.Errorf("Concatenation of N-D arrays is not supported.")
			}
			ops = append(ops, op)
		}
		if len(ops) > 0 {
			rows = append(rows, ops)
		}
	}
	if len(rows) == 0 {
		return e.NewNumeric(mx.ClassDouble, []int{0, 0}, nil, nil)
	}

	class := rows[0][0].class
	allLogical, anyChar := true, false
	for _, row := range rows {
		for _, op := range row {
			allLogical = allLogical && op.class == mx.ClassLogical
			anyChar = anyChar || op.class == mx.ClassChar
			if op.class == class {
				continue
			}
			switch {
			case isInteger(op.class) && isInteger(class) && op.class != class:
				// leftmost integer class wins
			case isInteger(op.class):
				class = op.class
			case isInteger(class):
			case op.class == mx.ClassSingle || class == mx.ClassSingle:
				class = mx.ClassSingle
			default:
				class = mx.ClassDouble
			}
		}
	}
	switch {
	case allLogical:
		class = mx.ClassLogical
	case anyChar && !isInteger(class) && class != mx.ClassSingle:
		class = mx.ClassChar
	}

	totalRows, cols := 0, -1
	for _, row := range rows {
		r, c := row[0].dims[0], 0
		for _, op := range row {
			if op.dims[0] != r {
				return nil, fmt.Errorf("Dimensions of arrays being concatenated are not consistent.")
			}
			c += op.dims[1]
		}
		if cols >= 0 && c != cols {
			return nil, fmt.Errorf("Dimensions of arrays being concatenated are not consistent.")
		}
		cols = c
		totalRows += r
	}

	out := make([]complex128, totalRows*cols)
	r0 := 0
	for _, row := range rows {
		c0 := 0
		h := row[0].dims[0]
		for _, op := range row {
			for j := 0; j < op.dims[1]; j++ {
				for i := 0; i < h; i++ {
					out[(r0+i)+(c0+j)*totalRows] = op.vals[i+j*h]
				}
			}
			c0 += op.dims[1]
		}
		r0 += h
	}
	return e.result(class, []int{totalRows, cols}, out)
}

// cellLiteral evaluates {a b; c d}. Every row must have the same length.
func (e *Engine) cellLiteral(m *matrixExpr) (*Array, error) {
	if len(m.rows) == 0 {
		return e.NewCell([]int{0, 0})
	}
	cols := len(m.rows[0])
	for _, row := range m.rows {
		if len(row) != cols {
			return nil, fmt.Errorf("Dimensions of arrays being concatenated are not consistent.")
		}
	}
	n := len(m.rows)
	elems := make([]*Array, n*cols)
	for i, row := range m.rows {
		for j, x := range row {
			a, err := e.eval(x)
			if err != nil {
				destroyAll(elems)
				return nil, err
			}
			elems[i+j*n] = a
		}
	}
	c, err := e.NewCell([]int{n, cols}, elems...)
	if err != nil {
		destroyAll(elems)
		return nil, err
	}
	return c, nil
}
