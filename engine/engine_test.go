package engine

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/mx"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()
	e, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { e.Close(ctx) })
	return e
}

func TestConfig_Defaults(t *testing.T) {
	tests := []struct {
		cfg         *Config
		name        string
		wantInitial uint32
	}{
		{nil, "nil config", 1},
		{&Config{}, "zero config", 1},
		{&Config{InitialPages: 8}, "initial pages", 8},
		{&Config{InitialPages: 8, MemoryLimitPages: 4}, "capped by limit", 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.withDefaults().InitialPages; got != tc.wantInitial {
				t.Errorf("InitialPages: got %d, want %d", got, tc.wantInitial)
			}
		})
	}
}

func TestNewWithConfig(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		cfg  *Config
		name string
	}{
		{nil, "nil config"},
		{&Config{}, "default config"},
		{&Config{MemoryLimitPages: 256}, "16MB limit"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := NewWithConfig(ctx, tc.cfg)
			if err != nil {
				t.Fatalf("NewWithConfig: %v", err)
			}
			if err := e.Close(ctx); err != nil {
				t.Errorf("Close: %v", err)
			}
			if err := e.Close(ctx); err != nil {
				t.Errorf("second Close: %v", err)
			}
		})
	}
}

func TestEngine_ClosedSession(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Close(ctx); err != nil {
		t.Fatal(err)
	}

	if err := e.Eval(ctx, "x = 1;"); !stderrors.Is(err, errors.ErrClosed) {
		t.Errorf("Eval: got %v, want closed", err)
	}
	if _, err := e.GetVariable(ctx, "x"); !stderrors.Is(err, errors.ErrClosed) {
		t.Errorf("GetVariable: got %v, want closed", err)
	}
	if _, err := e.CreateCharArray([]string{"a"}); !stderrors.Is(err, errors.ErrClosed) {
		t.Errorf("CreateCharArray: got %v, want closed", err)
	}
}

func TestEngine_GetVariableCopies(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	if err := e.Eval(ctx, "x = [1 2 3];"); err != nil {
		t.Fatal(err)
	}
	arr, err := e.GetVariable(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	data, err := arr.RealData()
	if err != nil {
		t.Fatal(err)
	}
	if err := data.WriteU64(0, 0); err != nil {
		t.Fatal(err)
	}
	arr.Destroy()

	v, _ := e.Variable("x")
	vals, _ := v.Float64s()
	if vals[0] != 1 {
		t.Errorf("workspace changed through a copy: %v", vals)
	}

	if _, err := arr.RealData(); err == nil {
		t.Error("planes of a destroyed array must not be readable")
	}

	if _, err := e.GetVariable(ctx, "missing"); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetVariable(missing): got %v", err)
	}
}

func TestEngine_PutVariable(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	arr, err := e.CreateNumericArray([]int{2, 2}, mx.ClassInt16, mx.Real)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := arr.RealData()
	_ = data.WriteU16(6, 7)

	if err := e.PutVariable(ctx, "y", arr); err != nil {
		t.Fatal(err)
	}
	_ = data.WriteU16(6, 9)
	arr.Destroy()

	v, ok := e.Variable("y")
	if !ok {
		t.Fatal("y not bound")
	}
	vals, _ := v.Float64s()
	if vals[3] != 7 {
		t.Errorf("y(4): got %v, want 7", vals[3])
	}

	if err := e.PutVariable(ctx, "1bad", v); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("bad name: got %v", err)
	}
	if err := e.PutVariable(ctx, "z", arr); err == nil {
		t.Error("putting a destroyed array should fail")
	}
}

func TestEngine_Stats(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	base := e.Stats()
	if base.Live != 0 || base.BytesInUse != 0 {
		t.Fatalf("fresh engine not empty: %+v", base)
	}

	if err := e.Eval(ctx, "a = zeros(4, 4); c = {1, 'two'};"); err != nil {
		t.Fatal(err)
	}
	s := e.Stats()
	if s.Variables != 2 || s.Live != 4 {
		t.Errorf("after eval: %+v, want 2 variables and 4 live arrays", s)
	}

	arr, err := e.GetVariable(ctx, "c")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.Stats().Outstanding(); got != 1 {
		t.Errorf("Outstanding: got %d, want 1", got)
	}
	arr.Destroy()
	arr.Destroy()
	if got := e.Stats(); got.Outstanding() != 0 || got.Opened != 1 || got.Closed != 1 {
		t.Errorf("after Destroy: %+v", got)
	}

	if err := e.Eval(ctx, "clear"); err != nil {
		t.Fatal(err)
	}
	if s := e.Stats(); s.Live != 0 || s.BytesInUse != 0 || s.Variables != 0 {
		t.Errorf("after clear: %+v", s)
	}
}

func TestEngine_CreateCharArray(t *testing.T) {
	e := newTestEngine(t)

	arr, err := e.CreateCharArray([]string{"ab", "cde"})
	if err != nil {
		t.Fatal(err)
	}
	defer arr.Destroy()

	dims := arr.Dimensions()
	if arr.ClassID() != mx.ClassChar || dims[0] != 2 || dims[1] != 3 {
		t.Fatalf("got %s %v", arr.ClassID(), dims)
	}
	text, _ := arr.(*Array).Text()
	if text != "ab \ncde" {
		t.Errorf("Text: got %q", text)
	}
}

func TestEngine_Sparse(t *testing.T) {
	e := newTestEngine(t)

	s, err := e.NewSparse(mx.ClassDouble, 3, 2, 5, []int{0, 2, 1}, []int{0, 2, 3}, []float64{1, 2, 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	if !s.IsSparse() || s.Nzmax() != 5 {
		t.Fatalf("IsSparse=%v Nzmax=%d", s.IsSparse(), s.Nzmax())
	}
	jc, _ := s.Jc()
	if jc.Size() != 3*mx.IndexSize {
		t.Errorf("Jc size: got %d", jc.Size())
	}
	last, _ := jc.ReadU64(2 * mx.IndexSize)
	if last != 3 {
		t.Errorf("Jc[2]: got %d, want 3", last)
	}
	ir, _ := s.Ir()
	if ir.Size() != 5*mx.IndexSize {
		t.Errorf("Ir size: got %d, want nzmax entries", ir.Size())
	}

	if _, err := e.NewSparse(mx.ClassInt8, 1, 1, 1, nil, []int{0, 0}, nil, nil); err == nil {
		t.Error("int8 sparse arrays should be rejected")
	}
}

func TestFloatToBits_Saturates(t *testing.T) {
	tests := []struct {
		name  string
		class mx.ClassID
		in    float64
		want  float64
	}{
		{"int8 high", mx.ClassInt8, 300, 127},
		{"int8 low", mx.ClassInt8, -300, -128},
		{"uint8 negative", mx.ClassUint8, -5, 0},
		{"uint8 rounds half away", mx.ClassUint8, 2.5, 3},
		{"int32 nan", mx.ClassInt32, nan(), 0},
		{"int16 rounds negative", mx.ClassInt16, -2.5, -3},
		{"logical", mx.ClassLogical, 0.2, 1},
		{"single", mx.ClassSingle, 0.5, 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := bitsToFloat(tc.class, floatToBits(tc.class, tc.in))
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
