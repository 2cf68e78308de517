package transcoder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/transcoder/internal/abi"
)

// decodeCell fetches the cell's size without copying it, then each element
// by base-1 subscript. Elements are placed by coordinate, so host storage
// keeps the foreign column-major order.
func decodeCell(s *Session, name string) (host.Value, error) {
	shape, err := querySize(s, name)
	if err != nil {
		return nil, err
	}
	cell := host.NewCell(shape)
	for i := 0; i < shape.Size(); i++ {
		coords := CoordsForLinearIndex(shape, i)
		subscript := FormatCoords(ToForeignCoords(coords))
		path := "{" + subscript + "}"

		tmp := s.Temp()
		if err := s.Eval("%s = %s{%s};", tmp, name, subscript); err != nil {
			return nil, errors.At(err, path)
		}
		v, err := s.Decode(tmp)
		if err != nil {
			return nil, errors.At(err, path)
		}
		if err := cell.Set(coords, v); err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindShapeMismatch, err, path)
		}
	}
	return cell, nil
}

// decodeStruct reads the field names, then each field of the first
// element. Further elements of a struct array are not addressed.
func decodeStruct(s *Session, name string) (host.Value, error) {
	count, err := queryCount(s, name)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return host.Struct{}, nil
	}
	if count > 1 {
		Logger().Debug("decoding first element of struct array",
			zap.String("name", name), zap.Int("elements", count))
	}

	names, err := queryFieldNames(s, name)
	if err != nil {
		return nil, err
	}
	out := make(host.Struct, len(names))
	for _, field := range names {
		tmp := s.Temp()
		if err := s.Eval("%s = %s(1).%s;", tmp, name, field); err != nil {
			return nil, errors.At(err, field)
		}
		v, err := s.Decode(tmp)
		if err != nil {
			return nil, errors.At(err, field)
		}
		out[field] = v
	}
	return out, nil
}

// decodeFunction binds a proxy to the handle's workspace name. A handle
// reached through a temporary keeps that temporary alive.
func decodeFunction(s *Session, name string) (host.Value, error) {
	if s.dec.caller == nil {
		return nil, errors.UnsupportedType(errors.PhaseDecode, "", "function_handle")
	}
	if s.names.Owns(name) {
		s.Keep(name)
	}
	return host.NewFunctionRef(name, s.dec.caller), nil
}

func querySize(s *Session, name string) (host.Shape, error) {
	tmp := s.Temp()
	if err := s.Eval("%s = size(%s);", tmp, name); err != nil {
		return nil, err
	}
	v, err := s.Fetch(tmp)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*host.Dense)
	if !ok {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil, "size query returned %T", v)
	}
	shape := make(host.Shape, d.Len())
	for i := range shape {
		n, ok := abi.CoerceToIndex(d.Element(i))
		if !ok {
			return nil, errors.ShapeMismatch(errors.PhaseDecode, nil, "invalid extent %v", d.Element(i))
		}
		shape[i] = n
	}
	if _, ok := abi.ElementCount(shape); !ok {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil, "invalid size %v", []int(shape))
	}
	return shape, nil
}

func queryCount(s *Session, name string) (int, error) {
	tmp := s.Temp()
	if err := s.Eval("%s = numel(%s);", tmp, name); err != nil {
		return 0, err
	}
	v, err := s.Fetch(tmp)
	if err != nil {
		return 0, err
	}
	sc, ok := v.(host.Scalar)
	if !ok {
		return 0, errors.ShapeMismatch(errors.PhaseDecode, nil, "numel query returned %T", v)
	}
	n, ok := abi.CoerceToIndex(sc.Re)
	if !ok {
		return 0, errors.ShapeMismatch(errors.PhaseDecode, nil, "invalid element count %v", sc.Re)
	}
	return n, nil
}

func queryFieldNames(s *Session, name string) ([]string, error) {
	tmp := s.Temp()
	if err := s.Eval("%s = fieldnames(%s);", tmp, name); err != nil {
		return nil, err
	}
	v, err := decodeCell(s, tmp)
	if err != nil {
		return nil, err
	}
	cell := v.(*host.Cell)
	out := make([]string, cell.Len())
	for i := range out {
		text, ok := cell.Index(i).(host.Text)
		if !ok {
			return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
				"field name %d decoded as %T", i, cell.Index(i))
		}
		out[i] = string(text)
	}
	return out, nil
}

func quote(s string) string {
	return fmt.Sprintf("'%s'", escapeQuotes(s))
}

func escapeQuotes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(out)
}
