package transcoder

import (
	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/transcoder/internal/abi"
)

// ImagTolerance is the absolute tolerance under which an imaginary plane
// counts as zero when encoding.
const ImagTolerance = 1e-8

// DecodeNumeric converts a dense numeric or logical array. One-element
// arrays collapse to a host.Scalar; empty arrays keep their shape and
// never touch the data planes.
func DecodeNumeric(arr mx.Array) (host.Value, error) {
	class := arr.ClassID()
	kind, err := ToHostKind(class)
	if err != nil {
		return nil, err
	}
	shape, err := DecodeDims(arr)
	if err != nil {
		return nil, err
	}
	n := shape.Size()
	if n == 0 {
		return host.Zeros(kind, shape, false), nil
	}

	reMem, err := arr.RealData()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindResource, err, "real plane")
	}
	re, err := readPlane(reMem, kind, n, true, "real")
	if err != nil {
		return nil, err
	}

	var im any
	if arr.IsComplex() {
		imMem, err := arr.ImagData()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindResource, err, "imaginary plane")
		}
		if im, err = readPlane(imMem, kind, n, true, "imaginary"); err != nil {
			return nil, err
		}
	}

	d, err := host.FromPlanes(shape, re, im)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindShapeMismatch, err, "assemble array")
	}
	if s, ok := d.Scalar(); ok {
		return s, nil
	}
	return d, nil
}

// EncodeNumeric creates a caller-owned foreign array holding d. A complex
// array whose imaginary plane is zero within ImagTolerance is stored real.
// Logical arrays are not supported.
func EncodeNumeric(f mx.Factory, d *host.Dense) (mx.Array, error) {
	if d.Kind() == host.KindBool {
		return nil, errors.NotImplemented(errors.PhaseEncode, "logical arrays")
	}
	class, err := ToClassID(d.Kind())
	if err != nil {
		return nil, err
	}
	dims, err := EncodeDims(d.Shape())
	if err != nil {
		return nil, err
	}

	complexity := mx.Real
	if d.IsComplex() && !abi.AllZero(d.Imag(), ImagTolerance) {
		complexity = mx.Complex
	}

	arr, err := f.CreateNumericArray(dims, class, complexity)
	if err != nil {
		return nil, errors.Resource(errors.PhaseEncode, "CreateNumericArray", err)
	}
	if arr == nil {
		return nil, errors.Resource(errors.PhaseEncode, "CreateNumericArray", nil)
	}

	if err := fillNumeric(arr, d, complexity); err != nil {
		arr.Destroy()
		return nil, err
	}
	return arr, nil
}

func fillNumeric(arr mx.Array, d *host.Dense, complexity mx.Complexity) error {
	if d.Len() == 0 {
		return nil
	}
	reMem, err := arr.RealData()
	if err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindResource, err, "real plane")
	}
	if err := writePlane(reMem, d.Real(), "real"); err != nil {
		return err
	}
	if complexity != mx.Complex {
		return nil
	}
	imMem, err := arr.ImagData()
	if err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindResource, err, "imaginary plane")
	}
	return writePlane(imMem, d.Imag(), "imaginary")
}
