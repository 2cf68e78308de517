package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:       PhaseDecode,
				Kind:        KindUnsupported,
				Path:        []string{"s", "inner", "{2,1}"},
				GoType:      "host.Struct",
				ForeignType: "opaque",
				Detail:      "no converter",
			},
			contains: []string{"[decode]", "unsupported_type", "s.inner.{2,1}", "host.Struct", "opaque", "no converter"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseSession,
				Kind:  KindNotFound,
			},
			contains: []string{"[session]", "not_found"},
		},
		{
			name:     "phaseless sentinel",
			err:      ErrShapeMismatch,
			contains: []string{"shape_mismatch"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseSession,
				Kind:   KindResource,
				Detail: "engGetVariable returned an invalid handle",
				Cause:  errors.New("null pointer"),
			},
			contains: []string{"[session]", "resource", "engGetVariable", "caused by", "null pointer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindResource,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindShapeMismatch,
		Path:  []string{"x"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindShapeMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindShapeMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindEval}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrShapeMismatch) {
		t.Error("sentinel without phase should match on kind")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("sentinel of another kind should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindUnsupported).
		Path("x", "re").
		GoType("chan int").
		ForeignType("double").
		Value(42).
		Cause(cause).
		Detail("cannot marshal %s", "chan int").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindUnsupported {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
	}
	if len(err.Path) != 2 || err.Path[0] != "x" || err.Path[1] != "re" {
		t.Errorf("Path = %v, want [x re]", err.Path)
	}
	if err.GoType != "chan int" {
		t.Errorf("GoType = %v, want 'chan int'", err.GoType)
	}
	if err.ForeignType != "double" {
		t.Errorf("ForeignType = %v, want 'double'", err.ForeignType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "cannot marshal chan int" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		want error
	}{
		{"UnsupportedType", UnsupportedType(PhaseRegistry, "", "cell"), KindUnsupported, ErrUnsupportedType},
		{"ShapeMismatch", ShapeMismatch(PhaseDecode, nil, "want %d bytes, got %d", 16, 8), KindShapeMismatch, ErrShapeMismatch},
		{"Eval", Eval("x = ", "Error: Expression or statement is incomplete"), KindEval, ErrEval},
		{"Resource", Resource(PhaseSession, "engGetVariable", nil), KindResource, ErrResource},
		{"NotFound", NotFound(PhaseSession, "variable", "x"), KindNotFound, ErrNotFound},
		{"NotImplemented", NotImplemented(PhaseEncode, "struct encode"), KindNotImplemented, ErrNotImplemented},
		{"InvalidInput", InvalidInput(PhaseSession, "bad name %q", "1x"), KindInvalidInput, ErrInvalidInput},
		{"Closed", Closed(PhaseSession, "engine"), KindClosed, ErrClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}
		})
	}

	t.Run("Eval keeps engine text verbatim", func(t *testing.T) {
		text := "Undefined function or variable 'foo'.\n"
		err := Eval("foo", text)
		if err.Detail != text {
			t.Errorf("Detail = %q, want %q", err.Detail, text)
		}
		if err.Value != "foo" {
			t.Errorf("Value = %v, want command", err.Value)
		}
	})
}

func TestAt(t *testing.T) {
	base := ShapeMismatch(PhaseDecode, []string{"re"}, "short buffer")
	err := At(base, "c", "{1,2}")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("At should keep the structured error")
	}
	if strings.Join(e.Path, ".") != "c.{1,2}.re" {
		t.Errorf("Path = %v", e.Path)
	}
	if len(base.Path) != 1 {
		t.Error("At must not mutate the original error")
	}

	plain := errors.New("plain")
	if At(plain, "x") != plain {
		t.Error("At should pass through unstructured errors")
	}
}
