package transcoder

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
)

func TestDecode_Cell(t *testing.T) {
	f := newFixture(t, nil)
	f.eval(t, "c = {1, 'two'; [1 2 3], {true}};")

	c, ok := f.decode(t, "c").(*host.Cell)
	if !ok {
		t.Fatalf("decoded %T, want *host.Cell", c)
	}
	if !c.Shape().Equal(host.Shape{2, 2}) {
		t.Fatalf("shape: got %s", c.Shape())
	}
	if s, ok := c.At(0, 0).(host.Scalar); !ok || s.Float64() != 1 {
		t.Errorf("{1,1}: got %#v", c.At(0, 0))
	}
	if c.At(0, 1) != host.Text("two") {
		t.Errorf("{1,2}: got %#v", c.At(0, 1))
	}
	if d, ok := c.At(1, 0).(*host.Dense); !ok || !reflect.DeepEqual(d.Float64s(), []float64{1, 2, 3}) {
		t.Errorf("{2,1}: got %#v", c.At(1, 0))
	}
	inner, ok := c.At(1, 1).(*host.Cell)
	if !ok || inner.Len() != 1 || inner.Index(0) != host.NewScalar(true) {
		t.Errorf("{2,2}: got %#v", c.At(1, 1))
	}
	// Column-major storage: linear index 1 is {2,1}.
	if c.Index(1) != c.At(1, 0) {
		t.Error("cell storage is not column-major")
	}
	f.assertClean(t)
}

func TestDecode_CellEmptyAndNested(t *testing.T) {
	f := newFixture(t, nil)
	f.eval(t, "e = cell(0, 2);")
	f.eval(t, "n = cell(1, 2, 2);")

	e := f.decode(t, "e").(*host.Cell)
	if e.Len() != 0 || !e.Shape().Equal(host.Shape{0, 2}) {
		t.Errorf("empty cell: got %s", e.Shape())
	}

	n := f.decode(t, "n").(*host.Cell)
	if !n.Shape().Equal(host.Shape{1, 2, 2}) {
		t.Fatalf("three-axis cell: got %s", n.Shape())
	}
	for i := 0; i < n.Len(); i++ {
		if d, ok := n.Index(i).(*host.Dense); !ok || d.Len() != 0 {
			t.Errorf("element %d: got %#v", i, n.Index(i))
		}
	}
	f.assertClean(t)
}

func TestDecode_Struct(t *testing.T) {
	f := newFixture(t, nil)
	f.eval(t, "s = struct('a', 1, 'b', 'x', 'c', {{2, 'y'}});")

	got, ok := f.decode(t, "s").(host.Struct)
	if !ok {
		t.Fatalf("decoded %T, want host.Struct", got)
	}
	if !reflect.DeepEqual(got.Fields(), []string{"a", "b", "c"}) {
		t.Fatalf("fields: got %v", got.Fields())
	}
	if got["a"] != host.NewScalar(1.0) || got["b"] != host.Text("x") {
		t.Errorf("fields: got a=%#v b=%#v", got["a"], got["b"])
	}
	if c, ok := got["c"].(*host.Cell); !ok || c.Len() != 2 || c.Index(1) != host.Text("y") {
		t.Errorf("cell field: got %#v", got["c"])
	}
	f.assertClean(t)
}

func TestDecode_StructArray(t *testing.T) {
	f := newFixture(t, nil)
	f.eval(t, "t = struct('v', {10, 20, 30});")
	f.eval(t, "z = struct('v', {});")

	got := f.decode(t, "t").(host.Struct)
	if got["v"] != host.NewScalar(10.0) {
		t.Errorf("first element: got %#v", got["v"])
	}
	if got := f.decode(t, "z").(host.Struct); len(got) != 0 {
		t.Errorf("empty struct array: got %v", got)
	}
	f.assertClean(t)
}

func TestDecode_Object(t *testing.T) {
	f := newFixture(t, nil)
	x, _ := f.eng.NewScalar(3)
	y, _ := f.eng.NewScalar(4)
	f.set(t, "p")(f.eng.NewObject("Point", []string{"x", "y"}, x, y))

	_, err := f.dec.Decode(f.ctx, "p")
	if !stderrors.Is(err, errors.ErrUnsupportedType) {
		t.Fatalf("object without converter: got %v", err)
	}
	f.assertClean(t)

	g := newFixture(t, map[string]Converter{"Point": StructConverter})
	x, _ = g.eng.NewScalar(3)
	y, _ = g.eng.NewScalar(4)
	g.set(t, "p")(g.eng.NewObject("Point", []string{"x", "y"}, x, y))

	got, ok := g.decode(t, "p").(host.Struct)
	if !ok || got["x"] != host.NewScalar(3.0) || got["y"] != host.NewScalar(4.0) {
		t.Errorf("converted object: got %#v", got)
	}
	g.assertClean(t)
}

func TestDecode_ConverterOverride(t *testing.T) {
	calls := 0
	f := newFixture(t, map[string]Converter{
		"double": func(s *Session, name string) (host.Value, error) {
			calls++
			v, err := s.Fetch(name)
			if err != nil {
				return nil, err
			}
			return host.Text(host.Format(v)), nil
		},
		"ignored": nil,
	})
	f.eval(t, "c = {2.5, 'x'};")

	got := f.decode(t, "c").(*host.Cell)
	if got.Index(0) != host.Text("2.5") || got.Index(1) != host.Text("x") {
		t.Errorf("got %#v %#v", got.Index(0), got.Index(1))
	}
	if calls != 1 {
		t.Errorf("converter calls: got %d, want 1", calls)
	}
	f.assertClean(t)
}

func TestDecode_Function(t *testing.T) {
	f := newFixture(t, nil)
	f.set(t, "h")(f.eng.NewFunctionHandle("plus"), nil)
	f.eval(t, "c = {@minus, 1};")

	ref, ok := f.decode(t, "h").(*host.FunctionRef)
	if !ok || ref.Name != "h" {
		t.Fatalf("top-level handle: got %#v", ref)
	}
	if _, err := ref.Call(f.ctx, 1, 2.0, 3.0); err != nil {
		t.Fatal(err)
	}
	if len(f.caller.calls) != 1 || f.caller.calls[0].name != "h" || f.caller.calls[0].nargout != 1 {
		t.Errorf("caller: got %+v", f.caller.calls)
	}

	c := f.decode(t, "c").(*host.Cell)
	inner, ok := c.Index(0).(*host.FunctionRef)
	if !ok {
		t.Fatalf("cell element: got %#v", c.Index(0))
	}
	if !f.names.Owns(inner.Name) || !f.eng.Has(inner.Name) {
		t.Errorf("handle temporary %q must outlive the decode", inner.Name)
	}
	f.assertClean(t, inner.Name)
}

func TestDecode_FunctionWithoutCaller(t *testing.T) {
	f := newFixture(t, nil)
	f.dec = NewDecoder(f.eng, Options{Names: f.names})
	f.set(t, "h")(f.eng.NewFunctionHandle("plus"), nil)

	if _, err := f.dec.Decode(f.ctx, "h"); !stderrors.Is(err, errors.ErrUnsupportedType) {
		t.Errorf("got %v, want unsupported type", err)
	}
	f.assertClean(t)
}

func TestDecode_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.dec.Decode(f.ctx, "missing")
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseDecode {
		t.Errorf("phase: got %v", err)
	}
	f.assertClean(t)

	if _, err := f.dec.Decode(f.ctx, "not a name"); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("invalid name: got %v", err)
	}
}

func TestDecode_FailureReleasesEverything(t *testing.T) {
	f := newFixture(t, nil)
	x, _ := f.eng.NewScalar(1)
	obj, err := f.eng.NewObject("Opaque", []string{"x"}, x)
	if err != nil {
		t.Fatal(err)
	}
	one, _ := f.eng.NewScalar(1)
	txt, _ := f.eng.NewChar("ok")
	f.set(t, "c")(f.eng.NewCell([]int{1, 3}, one, txt, obj))

	_, err = f.dec.Decode(f.ctx, "c")
	if !stderrors.Is(err, errors.ErrUnsupportedType) {
		t.Fatalf("got %v, want unsupported type", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || !reflect.DeepEqual(e.Path, []string{"c", "{1, 3}"}) {
		t.Errorf("path: got %v", e.Path)
	}
	if f.counter.Acquired() == 0 {
		t.Fatal("expected handles to be acquired")
	}
	f.assertClean(t)
}

func TestDecode_CanceledContext(t *testing.T) {
	f := newFixture(t, nil)
	f.eval(t, "x = 1;")
	ctx, cancel := context.WithCancel(f.ctx)
	cancel()
	if _, err := f.dec.Decode(ctx, "x"); err == nil {
		t.Error("expected context error")
	}
	f.assertClean(t)
}
