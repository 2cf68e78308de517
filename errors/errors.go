package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegistry Phase = "registry" // element type lookup
	PhaseEncode   Phase = "encode"   // host to foreign
	PhaseDecode   Phase = "decode"   // foreign to host
	PhaseEval     Phase = "eval"     // foreign command evaluation
	PhaseSession  Phase = "session"  // get/put/open/close on the engine
	PhaseLoad     Phase = "load"     // engine library loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported    Kind = "unsupported_type"
	KindShapeMismatch  Kind = "shape_mismatch"
	KindEval           Kind = "eval"
	KindResource       Kind = "resource"
	KindNotFound       Kind = "not_found"
	KindNotImplemented Kind = "not_implemented"
	KindInvalidInput   Kind = "invalid_input"
	KindClosed         Kind = "closed"
)

// Sentinels match any error of the same Kind regardless of phase:
//
//	if errors.Is(err, mxerrors.ErrNotFound) { ... }
var (
	ErrUnsupportedType = &Error{Kind: KindUnsupported}
	ErrShapeMismatch   = &Error{Kind: KindShapeMismatch}
	ErrEval            = &Error{Kind: KindEval}
	ErrResource        = &Error{Kind: KindResource}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrNotImplemented  = &Error{Kind: KindNotImplemented}
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
	ErrClosed          = &Error{Kind: KindClosed}
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value       any
	Cause       error
	Phase       Phase
	Kind        Kind
	GoType      string
	ForeignType string
	Detail      string
	Path        []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.ForeignType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.ForeignType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", foreign class ")
			b.WriteString(e.ForeignType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("foreign class ")
			b.WriteString(e.ForeignType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.ForeignType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a
// phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the element path (variable name, field, cell coordinate)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// ForeignType sets the foreign class name
func (b *Builder) ForeignType(t string) *Builder {
	b.err.ForeignType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the bridge taxonomy

// UnsupportedType reports a class or Go kind without a mapping.
func UnsupportedType(phase Phase, goType, foreignType string) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindUnsupported,
		GoType:      goType,
		ForeignType: foreignType,
	}
}

// ShapeMismatch reports a buffer whose size disagrees with the declared dimensions.
func ShapeMismatch(phase Phase, path []string, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShapeMismatch,
		Path:   path,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Eval carries the engine's diagnostic text verbatim.
func Eval(command, engineText string) *Error {
	return &Error{
		Phase:  PhaseEval,
		Kind:   KindEval,
		Detail: engineText,
		Value:  command,
	}
}

// Resource reports a handle-producing call that returned no usable handle.
func Resource(phase Phase, call string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindResource,
		Detail: fmt.Sprintf("%s returned an invalid handle", call),
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// NotImplemented reports a conversion that is deliberately refused.
func NotImplemented(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotImplemented,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Closed reports use of a closed engine session.
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// At prefixes path onto err when it is a structured error. Used while
// unwinding recursive aggregate decodes so the failing element is named.
func At(err error, path ...string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	cp := *e
	cp.Path = append(append([]string{}, path...), e.Path...)
	return &cp
}
