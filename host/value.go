package host

import (
	"context"
	"sort"
)

// Value is a decoded foreign value. The concrete type is one of Scalar,
// Text, TextList, *Dense, *Sparse, Struct, *Cell or *FunctionRef.
type Value interface {
	value()
}

// Scalar is a single element. Re and Im hold Go values of Kind's type;
// Im is nil for real scalars.
type Scalar struct {
	Re   any
	Im   any
	Kind Kind
}

func NewScalar[T Element](v T) Scalar {
	return Scalar{Kind: KindFor[T](), Re: v}
}

func NewComplexScalar[T Element](re, im T) Scalar {
	return Scalar{Kind: KindFor[T](), Re: re, Im: im}
}

func (s Scalar) IsComplex() bool { return s.Im != nil }

// Float64 returns the real part as float64.
func (s Scalar) Float64() float64 { return ToFloat64(s.Re) }

func (s Scalar) Complex128() complex128 {
	return complex(ToFloat64(s.Re), ToFloat64(s.Im))
}

// Bool reports whether the real part is non-zero.
func (s Scalar) Bool() bool { return s.Float64() != 0 }

// Text is a single row of characters.
type Text string

// TextList holds the rows of a multi-row character matrix.
type TextList []string

// Struct maps field names to decoded field values.
type Struct map[string]Value

// Fields returns the field names in sorted order.
func (s Struct) Fields() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Caller invokes a named foreign function. Bridges implement it.
type Caller interface {
	CallFunction(ctx context.Context, name string, nargout int, args ...any) ([]Value, error)
}

// FunctionRef is a callable proxy for a foreign function handle. It holds
// the workspace name of the handle and the session it came from, never a
// copy of the handle itself.
type FunctionRef struct {
	caller Caller
	Name   string
}

func NewFunctionRef(name string, caller Caller) *FunctionRef {
	return &FunctionRef{Name: name, caller: caller}
}

// Call invokes the function with args and collects nargout results.
func (f *FunctionRef) Call(ctx context.Context, nargout int, args ...any) ([]Value, error) {
	return f.caller.CallFunction(ctx, f.Name, nargout, args...)
}

func (Scalar) value()       {}
func (Text) value()         {}
func (TextList) value()     {}
func (*Dense) value()       {}
func (*Sparse) value()      {}
func (Struct) value()       {}
func (*Cell) value()        {}
func (*FunctionRef) value() {}
