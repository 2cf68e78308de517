package transcoder

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/resource"
)

// Session is the state of one decode or encode call: the handles it holds
// and the temporaries it created. Close releases both. Converters receive
// the Session of the call that reached them.
type Session struct {
	ctx    context.Context
	engine mx.Engine
	scope  *resource.Scope
	names  *TempNames
	dec    *Decoder
	temps  []string
}

func newSession(ctx context.Context, engine mx.Engine, table *resource.Table, names *TempNames, dec *Decoder) *Session {
	return &Session{
		ctx:    ctx,
		engine: engine,
		scope:  table.NewScope(),
		names:  names,
		dec:    dec,
	}
}

func (s *Session) Context() context.Context { return s.ctx }

// Temp returns a fresh workspace name that is cleared when the session closes.
func (s *Session) Temp() string {
	name := s.names.Next()
	s.temps = append(s.temps, name)
	return name
}

// Keep removes name from the cleanup list so it outlives the session.
func (s *Session) Keep(name string) {
	for i, t := range s.temps {
		if t == name {
			s.temps = append(s.temps[:i], s.temps[i+1:]...)
			return
		}
	}
}

// Eval formats and runs a command.
func (s *Session) Eval(format string, args ...any) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	command := fmt.Sprintf(format, args...)
	Logger().Debug("eval", zap.String("command", command))
	if err := s.engine.Eval(s.ctx, command); err != nil {
		if _, ok := err.(*errors.Error); ok {
			return err
		}
		return errors.Eval(command, err.Error())
	}
	return nil
}

// acquire registers arr with the session scope.
func (s *Session) acquire(arr mx.Array) (resource.Handle, error) {
	h, err := s.scope.Acquire(uint32(arr.ClassID()), arr)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseSession, errors.KindClosed, err, "handle table")
	}
	Logger().Debug("acquired handle", zap.Uint32("handle", uint32(h)), zap.Stringer("class", arr.ClassID()))
	return h, nil
}

func (s *Session) release(h resource.Handle) {
	s.scope.Release(h)
	Logger().Debug("released handle", zap.Uint32("handle", uint32(h)))
}

// Fetch copies a workspace variable out and decodes it as a plain array.
// The handle is released before Fetch returns.
func (s *Session) Fetch(name string) (host.Value, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	arr, err := s.engine.GetVariable(s.ctx, name)
	if err != nil {
		return nil, err
	}
	if arr == nil {
		return nil, errors.Resource(errors.PhaseSession, "GetVariable", nil)
	}
	h, err := s.acquire(arr)
	if err != nil {
		return nil, err
	}
	defer s.release(h)
	return decodeArray(arr)
}

// Put copies arr into the workspace under name.
func (s *Session) Put(name string, arr mx.Array) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	return s.engine.PutVariable(s.ctx, name, arr)
}

// Decode dispatches on the foreign class of the named variable.
func (s *Session) Decode(name string) (host.Value, error) {
	if s.dec == nil {
		return nil, errors.InvalidInput(errors.PhaseDecode, "session has no decoder")
	}
	return s.dec.decodeNamed(s, name)
}

// ClassName queries the foreign class of a variable without copying it.
func (s *Session) ClassName(name string) (string, error) {
	tmp := s.Temp()
	if err := s.Eval("%s = class(%s);", tmp, name); err != nil {
		return "", err
	}
	v, err := s.Fetch(tmp)
	if err != nil {
		return "", err
	}
	text, ok := v.(host.Text)
	if !ok {
		return "", errors.New(errors.PhaseDecode, errors.KindShapeMismatch).
			Detail("class query returned %T", v).
			Build()
	}
	return string(text), nil
}

// Close releases every handle still held and clears the temporaries.
func (s *Session) Close() {
	s.scope.Close()
	if len(s.temps) == 0 {
		return
	}
	command := "clear " + strings.Join(s.temps, " ") + ";"
	s.temps = s.temps[:0]
	// Cleanup runs even when the call's context is done.
	if err := s.engine.Eval(context.WithoutCancel(s.ctx), command); err != nil {
		Logger().Warn("failed to clear temporaries", zap.Error(err))
	}
}
