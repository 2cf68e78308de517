package mxbridge

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/resource"
	"github.com/wippyai/mxbridge/transcoder"
)

// Config holds bridge configuration options.
type Config struct {
	// Converters adds or replaces decoders keyed by foreign class name.
	// The set is fixed when the bridge is created.
	Converters map[string]transcoder.Converter

	// Logger receives bridge-level logs. Defaults to the package logger.
	Logger *zap.Logger

	// TempPrefix prefixes the workspace names the bridge creates for
	// intermediate values. Defaults to transcoder.DefaultTempPrefix.
	TempPrefix string
}

// Stats counts the foreign array handles the bridge has held.
type Stats struct {
	Acquired int64
	Released int64
	Live     int
}

// Bridge converts workspace variables of one engine session to and from
// host values. A Bridge is single-owner like the session it wraps.
type Bridge struct {
	engine  mx.Engine
	table   *resource.Table
	counter *resource.Counter
	names   *transcoder.TempNames
	dec     *transcoder.Decoder
	enc     *transcoder.Encoder
	log     *zap.Logger
	closed  bool
}

var _ host.Caller = (*Bridge)(nil)

// New creates a bridge over engine with default configuration.
func New(engine mx.Engine) *Bridge {
	return NewWithConfig(engine, nil)
}

// NewWithConfig creates a bridge over engine. The caller keeps ownership
// of engine and closes it after the bridge.
func NewWithConfig(engine mx.Engine, cfg *Config) *Bridge {
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	table := resource.NewTable()
	counter := &resource.Counter{}
	table.Subscribe(counter)

	b := &Bridge{
		engine:  engine,
		table:   table,
		counter: counter,
		names:   transcoder.NewTempNames(cfg.TempPrefix),
		log:     log,
	}
	opts := transcoder.Options{
		Table:      table,
		Names:      b.names,
		Converters: cfg.Converters,
		Caller:     b,
	}
	b.dec = transcoder.NewDecoder(engine, opts)
	b.enc = transcoder.NewEncoder(engine, opts)
	return b
}

func (b *Bridge) check() error {
	if b.closed {
		return errors.Closed(errors.PhaseSession, "bridge")
	}
	return nil
}

// Decode converts the workspace variable name into a host value.
func (b *Bridge) Decode(ctx context.Context, name string) (host.Value, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	v, err := b.dec.Decode(ctx, name)
	if err != nil {
		b.log.Debug("decode failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return v, nil
}

// DecodeArray converts a dense, sparse or character array the caller
// holds. The caller keeps ownership of arr.
func (b *Bridge) DecodeArray(arr mx.Array) (host.Value, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	return b.dec.DecodeArray(arr)
}

// Encode assigns v to the workspace variable name. Any array the bridge
// creates for the transfer is destroyed before Encode returns.
func (b *Bridge) Encode(ctx context.Context, name string, v any) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.enc.Encode(ctx, name, v); err != nil {
		b.log.Debug("encode failed", zap.String("name", name), zap.Error(err))
		return err
	}
	return nil
}

// Eval runs a command in the session.
func (b *Bridge) Eval(ctx context.Context, command string) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.engine.Eval(ctx, command); err != nil {
		if _, ok := err.(*errors.Error); ok {
			return err
		}
		return errors.Eval(command, err.Error())
	}
	return nil
}

// Function returns a proxy for the function name. The name is not
// resolved until the proxy is called.
func (b *Bridge) Function(name string) *host.FunctionRef {
	return host.NewFunctionRef(name, b)
}

// CallFunction calls name with args and decodes nargout results. Each
// argument is encoded under a temporary that is cleared afterwards;
// function proxies are passed by their workspace name.
func (b *Bridge) CallFunction(ctx context.Context, name string, nargout int, args ...any) ([]host.Value, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if !mx.ValidName(name) {
		return nil, errors.InvalidInput(errors.PhaseEval, "invalid function name %q", name)
	}
	if nargout < 0 {
		return nil, errors.InvalidInput(errors.PhaseEval, "negative output count %d", nargout)
	}

	s := b.dec.Session(ctx)
	defer s.Close()

	argNames := make([]string, len(args))
	for i, arg := range args {
		if ref, ok := arg.(*host.FunctionRef); ok {
			argNames[i] = ref.Name
			continue
		}
		argNames[i] = s.Temp()
		if err := b.enc.Encode(ctx, argNames[i], arg); err != nil {
			return nil, errors.At(err, name, "arg"+strconv.Itoa(i+1))
		}
	}
	outNames := make([]string, nargout)
	for i := range outNames {
		outNames[i] = s.Temp()
	}

	var cmd strings.Builder
	switch nargout {
	case 0:
	case 1:
		cmd.WriteString(outNames[0])
		cmd.WriteString(" = ")
	default:
		cmd.WriteString("[")
		cmd.WriteString(strings.Join(outNames, ", "))
		cmd.WriteString("] = ")
	}
	cmd.WriteString(name)
	cmd.WriteString("(")
	cmd.WriteString(strings.Join(argNames, ", "))
	cmd.WriteString(");")

	b.log.Debug("call", zap.String("function", name), zap.Int("args", len(args)), zap.Int("nargout", nargout))
	if err := s.Eval("%s", cmd.String()); err != nil {
		return nil, err
	}

	out := make([]host.Value, nargout)
	for i, o := range outNames {
		v, err := s.Decode(o)
		if err != nil {
			return nil, errors.At(err, name, "out"+strconv.Itoa(i+1))
		}
		out[i] = v
	}
	return out, nil
}

// Help returns the engine's documentation for name.
func (b *Bridge) Help(ctx context.Context, name string) (string, error) {
	if err := b.check(); err != nil {
		return "", err
	}
	if !mx.ValidName(name) {
		return "", errors.InvalidInput(errors.PhaseEval, "invalid function name %q", name)
	}
	s := b.dec.Session(ctx)
	defer s.Close()

	tmp := s.Temp()
	if err := s.Eval("%s = help('%s');", tmp, name); err != nil {
		return "", err
	}
	v, err := s.Fetch(tmp)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case host.Text:
		return string(t), nil
	case host.TextList:
		return strings.Join(t, "\n"), nil
	}
	return "", errors.New(errors.PhaseDecode, errors.KindShapeMismatch).
		Detail("help returned %T", v).
		Build()
}

// Release clears the workspace temporary behind a function proxy decoded
// from inside a cell or struct. Proxies for variables the caller named are
// left alone.
func (b *Bridge) Release(ctx context.Context, ref *host.FunctionRef) error {
	if ref == nil || !b.names.Owns(ref.Name) {
		return nil
	}
	if err := b.check(); err != nil {
		return err
	}
	return b.Eval(ctx, "clear "+ref.Name+";")
}

// Stats returns the handle accounting since the bridge was created.
func (b *Bridge) Stats() Stats {
	return Stats{
		Acquired: b.counter.Acquired(),
		Released: b.counter.Released(),
		Live:     b.table.Len(),
	}
}

// Close destroys any handle still tracked. The engine stays open.
func (b *Bridge) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if n := b.table.Len(); n > 0 {
		b.log.Warn("bridge closed with handles live", zap.Int("handles", n))
	}
	return b.table.Close()
}
