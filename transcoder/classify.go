package transcoder

import (
	"reflect"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/transcoder/internal/abi"
)

// InputTag identifies the shape of a host value accepted for encoding.
type InputTag uint8

const (
	InputInvalid    InputTag = iota
	InputScalar              // Input.Scalar: bool or numeric, real or complex
	InputText                // Input.Text: one row of characters
	InputTextRows            // Input.Rows: a character matrix
	InputArray               // Input.Dense: numeric or logical array
	InputSparse              // Input.Sparse
	InputMapping             // string-keyed map or host.Struct
	InputCollection          // []any or *host.Cell
	InputFunction            // Go func or *host.FunctionRef
)

var inputTagNames = [...]string{
	InputInvalid:    "invalid",
	InputScalar:     "scalar",
	InputText:       "text",
	InputTextRows:   "text rows",
	InputArray:      "array",
	InputSparse:     "sparse",
	InputMapping:    "mapping",
	InputCollection: "collection",
	InputFunction:   "function",
}

func (t InputTag) String() string {
	if int(t) < len(inputTagNames) {
		return inputTagNames[t]
	}
	return "invalid"
}

// Input is a host value classified for encoding. Only the field matching
// Tag is set.
type Input struct {
	Scalar host.Scalar
	Text   string
	Rows   []string
	Dense  *host.Dense
	Sparse *host.Sparse
	GoType string
	Tag    InputTag
}

// Classify sorts v into exactly one InputTag. Go int and uint are widened
// to their 64-bit forms; one-axis arrays become columns.
func Classify(v any) (Input, error) {
	in := Input{GoType: abi.TypeName(v)}
	if v == nil {
		return in, errors.InvalidInput(errors.PhaseEncode, "nil value")
	}

	switch x := v.(type) {
	case host.Scalar:
		if !x.Kind.Valid() {
			return in, errors.InvalidInput(errors.PhaseEncode, "scalar has no kind")
		}
		in.Tag, in.Scalar = InputScalar, x
		return in, nil
	case host.Text:
		in.Tag, in.Text = InputText, string(x)
		return in, nil
	case string:
		in.Tag, in.Text = InputText, x
		return in, nil
	case host.TextList:
		in.Tag, in.Rows = InputTextRows, []string(x)
		return in, nil
	case []string:
		in.Tag, in.Rows = InputTextRows, x
		return in, nil
	case *host.Dense:
		in.Tag, in.Dense = InputArray, promote(x)
		return in, nil
	case *host.Sparse:
		in.Tag, in.Sparse = InputSparse, x
		return in, nil
	case host.Struct:
		in.Tag = InputMapping
		return in, nil
	case *host.Cell, []any:
		in.Tag = InputCollection
		return in, nil
	case *host.FunctionRef:
		in.Tag = InputFunction
		return in, nil
	case complex64:
		in.Tag, in.Scalar = InputScalar, host.NewComplexScalar(real(x), imag(x))
		return in, nil
	case complex128:
		in.Tag, in.Scalar = InputScalar, host.NewComplexScalar(real(x), imag(x))
		return in, nil
	case []complex64:
		re, im := make([]float32, len(x)), make([]float32, len(x))
		for i, c := range x {
			re[i], im[i] = real(c), imag(c)
		}
		d, _ := host.NewComplexDense(host.Shape{len(x), 1}, re, im)
		in.Tag, in.Dense = InputArray, d
		return in, nil
	case []complex128:
		re, im := make([]float64, len(x)), make([]float64, len(x))
		for i, c := range x {
			re[i], im[i] = real(c), imag(c)
		}
		d, _ := host.NewComplexDense(host.Shape{len(x), 1}, re, im)
		in.Tag, in.Dense = InputArray, d
		return in, nil
	}

	w := abi.Widen(v)
	if k := host.KindOf(w); k != host.KindInvalid {
		in.Tag, in.Scalar = InputScalar, host.Scalar{Kind: k, Re: w}
		return in, nil
	}

	plane := abi.WidenSlice(v)
	if k, n := host.PlaneKind(plane); k != host.KindInvalid {
		d, err := host.FromPlanes(host.Shape{n, 1}, plane, nil)
		if err != nil {
			return in, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "vector")
		}
		in.Tag, in.Dense = InputArray, d
		return in, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			in.Tag = InputMapping
			return in, nil
		}
	case reflect.Func:
		in.Tag = InputFunction
		return in, nil
	case reflect.Slice, reflect.Array:
		if d, ok, err := fromRows(rv); ok {
			if err != nil {
				return in, err
			}
			in.Tag, in.Dense = InputArray, d
			return in, nil
		}
	}
	return in, errors.UnsupportedType(errors.PhaseEncode, in.GoType, "")
}

// promote turns a one-axis array into an n×1 column.
func promote(d *host.Dense) *host.Dense {
	if d.Ndims() != 1 {
		return d
	}
	p, err := host.FromPlanes(host.Shape{d.Len(), 1}, d.Real(), d.Imag())
	if err != nil {
		return d
	}
	return p
}

// fromRows converts a rectangular [][]T of a numeric element type into a
// column-major matrix. ok is false when rv is not a slice of numeric slices.
func fromRows(rv reflect.Value) (*host.Dense, bool, error) {
	outer := rv.Type()
	inner := outer.Elem()
	if inner.Kind() != reflect.Slice && inner.Kind() != reflect.Array {
		return nil, false, nil
	}
	kind := host.KindOf(abi.Widen(reflect.Zero(inner.Elem()).Interface()))
	if kind == host.KindInvalid {
		return nil, false, nil
	}

	rows := rv.Len()
	cols := 0
	if rows > 0 {
		cols = rv.Index(0).Len()
	}
	for r := 1; r < rows; r++ {
		if n := rv.Index(r).Len(); n != cols {
			return nil, true, errors.InvalidInput(errors.PhaseEncode,
				"ragged rows: row %d has %d elements, row 0 has %d", r, n, cols)
		}
	}

	plane := host.MakePlane(kind, rows*cols)
	pv := reflect.ValueOf(plane)
	for r := 0; r < rows; r++ {
		row := rv.Index(r)
		for c := 0; c < cols; c++ {
			elem := reflect.ValueOf(abi.Widen(row.Index(c).Interface()))
			pv.Index(r + c*rows).Set(elem.Convert(pv.Type().Elem()))
		}
	}
	d, err := host.FromPlanes(host.Shape{rows, cols}, plane, nil)
	if err != nil {
		return nil, true, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "matrix")
	}
	return d, true, nil
}
