package mx

import "context"

// IndexSize is the byte width of one sparse row index or column pointer.
const IndexSize = 8

// CharSize is the byte width of one character cell (UTF-16 code unit).
const CharSize = 2

// Array is an opaque handle to an array living in the engine's memory.
//
// An Array obtained from GetVariable or a Create* call is owned by the
// caller until Destroy. Planes returned by the data accessors are views
// into engine memory and become invalid once the array is destroyed.
type Array interface {
	ClassID() ClassID

	// Dimensions returns the per-axis extents in the engine's axis order.
	// The length is the dimensionality and is never below 2.
	Dimensions() []int
	NumberOfElements() int

	IsSparse() bool
	IsComplex() bool

	// Nzmax is the allocated capacity of a sparse array's index and value
	// planes. It may exceed the number of stored entries.
	Nzmax() int

	// RealData returns the real plane, or nil when the array is empty.
	RealData() (Memory, error)
	// ImagData returns the imaginary plane, or nil for real arrays.
	ImagData() (Memory, error)
	// Ir returns the row index plane of a sparse array (Nzmax entries).
	Ir() (Memory, error)
	// Jc returns the column pointer plane of a sparse array (cols+1 entries).
	Jc() (Memory, error)

	Destroy()
}

// Factory creates arrays owned by the caller.
type Factory interface {
	CreateNumericArray(dims []int, class ClassID, complexity Complexity) (Array, error)
	// CreateCharArray builds a len(rows)-row character matrix, padding
	// shorter rows with blanks.
	CreateCharArray(rows []string) (Array, error)
}

// Engine is one open session with the foreign engine.
//
// Sessions are single-owner: callers must not share one across goroutines
// without their own synchronization.
type Engine interface {
	Factory

	// Eval runs a command. A failing command yields an eval error that
	// carries the engine's diagnostic text verbatim.
	Eval(ctx context.Context, command string) error

	// GetVariable returns a caller-owned copy of a workspace variable.
	GetVariable(ctx context.Context, name string) (Array, error)

	// PutVariable copies a into the workspace under name. The caller keeps
	// ownership of a.
	PutVariable(ctx context.Context, name string, a Array) error

	Close(ctx context.Context) error
}

// MaxNameLength is the longest identifier the engine accepts.
const MaxNameLength = 63

// ValidName reports whether name is a well-formed workspace identifier.
func ValidName(name string) bool {
	if name == "" || len(name) > MaxNameLength {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c == '_' || (c >= '0' && c <= '9')):
		default:
			return false
		}
	}
	return true
}
