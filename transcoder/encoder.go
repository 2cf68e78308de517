package transcoder

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/resource"
)

// Encoder stores host values as workspace variables.
type Encoder struct {
	engine mx.Engine
	table  *resource.Table
	names  *TempNames
}

func NewEncoder(engine mx.Engine, opts Options) *Encoder {
	opts = opts.withDefaults()
	return &Encoder{
		engine: engine,
		table:  opts.Table,
		names:  opts.Names,
	}
}

// Encode assigns v to the workspace variable name. Scalars are assigned by
// evaluating a literal; text and arrays are built as foreign arrays, put,
// and destroyed before Encode returns.
func (e *Encoder) Encode(ctx context.Context, name string, v any) error {
	if !mx.ValidName(name) {
		return errors.InvalidInput(errors.PhaseEncode, "invalid variable name %q", name)
	}
	in, err := Classify(v)
	if err != nil {
		return errors.At(err, name)
	}

	s := newSession(ctx, e.engine, e.table, e.names, nil)
	defer s.Close()

	Logger().Debug("encode", zap.String("name", name), zap.Stringer("input", in.Tag), zap.String("type", in.GoType))
	if err := e.encode(s, name, in); err != nil {
		return errors.At(err, name)
	}
	return nil
}

func (e *Encoder) encode(s *Session, name string, in Input) error {
	switch in.Tag {
	case InputScalar:
		lit, err := ScalarLiteral(in.Scalar)
		if err != nil {
			return err
		}
		return s.Eval("%s = %s;", name, lit)
	case InputText:
		arr, err := EncodeText(e.engine, []string{in.Text})
		if err != nil {
			return err
		}
		return s.putOwned(name, arr)
	case InputTextRows:
		arr, err := EncodeText(e.engine, in.Rows)
		if err != nil {
			return err
		}
		return s.putOwned(name, arr)
	case InputArray:
		arr, err := EncodeNumeric(e.engine, in.Dense)
		if err != nil {
			return err
		}
		return s.putOwned(name, arr)
	case InputSparse:
		arr, err := EncodeSparse(e.engine, in.Sparse)
		if err != nil {
			return err
		}
		return s.putOwned(name, arr)
	case InputMapping:
		return errors.NotImplemented(errors.PhaseEncode, "mapping to struct")
	case InputCollection:
		return errors.NotImplemented(errors.PhaseEncode, "collection to cell")
	case InputFunction:
		return errors.UnsupportedType(errors.PhaseEncode, in.GoType, "function_handle")
	}
	return errors.UnsupportedType(errors.PhaseEncode, in.GoType, "")
}

// putOwned tracks arr in the session scope, puts it and releases it.
func (s *Session) putOwned(name string, arr mx.Array) error {
	h, err := s.acquire(arr)
	if err != nil {
		return err
	}
	defer s.release(h)
	return s.Put(name, arr)
}
