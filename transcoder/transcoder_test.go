package transcoder

import (
	"context"
	"testing"

	"github.com/wippyai/mxbridge/engine"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/resource"
)

// fixture wires a Decoder and Encoder to a reference engine and counts
// every handle the transcoder acquires.
type fixture struct {
	ctx     context.Context
	eng     *engine.Engine
	names   *TempNames
	counter *resource.Counter
	dec     *Decoder
	enc     *Encoder
	caller  *recordingCaller
}

func newFixture(t *testing.T, converters map[string]Converter) *fixture {
	t.Helper()
	ctx := context.Background()
	eng, err := engine.New(ctx)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	t.Cleanup(func() { eng.Close(ctx) })

	table := resource.NewTable()
	counter := &resource.Counter{}
	table.Subscribe(counter)

	f := &fixture{
		ctx:     ctx,
		eng:     eng,
		names:   NewTempNames("tt_"),
		counter: counter,
		caller:  &recordingCaller{},
	}
	opts := Options{Table: table, Names: f.names, Converters: converters, Caller: f.caller}
	f.dec = NewDecoder(eng, opts)
	f.enc = NewEncoder(eng, opts)
	return f
}

func (f *fixture) eval(t *testing.T, command string) {
	t.Helper()
	if err := f.eng.Eval(f.ctx, command); err != nil {
		t.Fatalf("Eval(%q): %v", command, err)
	}
}

// set binds the result of an engine constructor:
//
//	f.set(t, "x")(f.eng.NewScalar(1))
func (f *fixture) set(t *testing.T, name string) func(*engine.Array, error) {
	t.Helper()
	return func(a *engine.Array, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build %s: %v", name, err)
		}
		if err := f.eng.Set(name, a); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
	}
}

func (f *fixture) decode(t *testing.T, name string) host.Value {
	t.Helper()
	v, err := f.dec.Decode(f.ctx, name)
	if err != nil {
		t.Fatalf("Decode(%s): %v", name, err)
	}
	return v
}

func (f *fixture) encode(t *testing.T, name string, v any) {
	t.Helper()
	if err := f.enc.Encode(f.ctx, name, v); err != nil {
		t.Fatalf("Encode(%s): %v", name, err)
	}
}

// assertClean checks that every handle was released and every temporary
// cleared, except the names in keep.
func (f *fixture) assertClean(t *testing.T, keep ...string) {
	t.Helper()
	if n := f.counter.Live(); n != 0 {
		t.Errorf("handle table: %d handles live", n)
	}
	if n := f.eng.Stats().Outstanding(); n != 0 {
		t.Errorf("engine: %d arrays outstanding", n)
	}
	kept := make(map[string]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}
	for _, name := range f.eng.Names() {
		if f.names.Owns(name) && !kept[name] {
			t.Errorf("temporary %s left in workspace", name)
		}
	}
}

type call struct {
	name    string
	nargout int
	args    []any
}

type recordingCaller struct {
	calls []call
}

func (c *recordingCaller) CallFunction(_ context.Context, name string, nargout int, args ...any) ([]host.Value, error) {
	c.calls = append(c.calls, call{name: name, nargout: nargout, args: args})
	return nil, nil
}

// lyingArray reports dims that do not match the planes it wraps.
type lyingArray struct {
	mx.Array
	dims []int
	n    int
}

func (a lyingArray) Dimensions() []int     { return a.dims }
func (a lyingArray) NumberOfElements() int { return a.n }

func dense[T host.Element](t *testing.T, shape host.Shape, data ...T) *host.Dense {
	t.Helper()
	d, err := host.NewDense(shape, data)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
