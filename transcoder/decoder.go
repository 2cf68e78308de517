package transcoder

import (
	"context"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/resource"
)

// Options wires a Decoder or Encoder to its collaborators. Zero fields get
// private defaults.
type Options struct {
	// Table tracks every handle a call acquires.
	Table *resource.Table
	// Names generates workspace temporaries.
	Names *TempNames
	// Converters adds or replaces decoders keyed by foreign class name.
	// The set is copied at construction.
	Converters map[string]Converter
	// Caller backs the proxies returned for function handles.
	Caller host.Caller
}

func (o Options) withDefaults() Options {
	if o.Table == nil {
		o.Table = resource.NewTable()
	}
	if o.Names == nil {
		o.Names = NewTempNames(DefaultTempPrefix)
	}
	return o
}

// Decoder converts foreign arrays and named workspace variables into host
// values.
type Decoder struct {
	engine     mx.Engine
	table      *resource.Table
	names      *TempNames
	caller     host.Caller
	converters map[string]Converter
}

func NewDecoder(engine mx.Engine, opts Options) *Decoder {
	opts = opts.withDefaults()
	converters := builtinConverters()
	for class, conv := range opts.Converters {
		if conv != nil {
			converters[class] = conv
		}
	}
	return &Decoder{
		engine:     engine,
		table:      opts.Table,
		names:      opts.Names,
		caller:     opts.Caller,
		converters: converters,
	}
}

// DecodeArray converts a dense, sparse or character array. The caller
// keeps ownership of arr. Cells, structs and function handles need a
// workspace name; use Decode for those.
func (d *Decoder) DecodeArray(arr mx.Array) (host.Value, error) {
	if arr == nil {
		return nil, errors.Resource(errors.PhaseDecode, "DecodeArray", nil)
	}
	return decodeArray(arr)
}

func decodeArray(arr mx.Array) (host.Value, error) {
	class := arr.ClassID()
	switch {
	case class == mx.ClassChar:
		return DecodeText(arr)
	case class.IsNumeric() && arr.IsSparse():
		return DecodeSparse(arr)
	case class.IsNumeric():
		return DecodeNumeric(arr)
	}
	return nil, errors.UnsupportedType(errors.PhaseDecode, "", class.String())
}

// Decode converts the workspace variable name. Every handle and temporary
// the call creates is released before Decode returns.
func (d *Decoder) Decode(ctx context.Context, name string) (host.Value, error) {
	if !mx.ValidName(name) {
		return nil, errors.InvalidInput(errors.PhaseDecode, "invalid variable name %q", name)
	}
	s := d.Session(ctx)
	defer s.Close()

	if err := d.checkExists(s, name); err != nil {
		return nil, err
	}
	v, err := d.decodeNamed(s, name)
	if err != nil {
		return nil, errors.At(err, name)
	}
	return v, nil
}

// Session opens a call scope that decodes through d. The caller must Close it.
func (d *Decoder) Session(ctx context.Context) *Session {
	return newSession(ctx, d.engine, d.table, d.names, d)
}

func (d *Decoder) checkExists(s *Session, name string) error {
	tmp := s.Temp()
	if err := s.Eval("%s = exist(%s, 'var');", tmp, quote(name)); err != nil {
		return err
	}
	v, err := s.Fetch(tmp)
	if err != nil {
		return err
	}
	if sc, ok := v.(host.Scalar); !ok || sc.Float64() == 0 {
		return errors.NotFound(errors.PhaseDecode, "variable", name)
	}
	return nil
}

func (d *Decoder) decodeNamed(s *Session, name string) (host.Value, error) {
	class, err := s.ClassName(name)
	if err != nil {
		return nil, err
	}
	if conv, ok := d.converters[class]; ok {
		return conv(s, name)
	}
	id := mx.ParseClass(class)
	if id == mx.ClassChar || id.IsNumeric() {
		return s.Fetch(name)
	}
	return nil, errors.UnsupportedType(errors.PhaseDecode, "", class)
}
