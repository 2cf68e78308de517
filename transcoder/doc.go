// Package transcoder converts between foreign engine arrays and host values.
//
// Foreign arrays are opaque handles (mx.Array) whose planes live in engine
// memory. Host values are the host.Value union. The transcoder is the only
// place that knows how one maps to the other:
//
//	┌────────────────────────────────────────────────────────────┐
//	│ host.Value ←→ [Transcoder] ←→ mx.Array planes / workspace  │
//	└────────────────────────────────────────────────────────────┘
//
// # Class Mapping
//
// Numeric classes map one-to-one onto host element kinds:
//
//	Class     Kind      Width
//	──────────────────────────
//	logical   bool      1
//	int8      int8      1
//	uint8     uint8     1
//	int16     int16     2
//	uint16    uint16    2
//	int32     int32     4
//	uint32    uint32    4
//	int64     int64     8
//	uint64    uint64    8
//	single    float32   4
//	double    float64   8
//	char      (text)    2
//
// Complexity is orthogonal: any numeric class may carry an imaginary plane.
//
// # Key Types
//
//	Decoder   - Reads arrays and named workspace variables into host values
//	Encoder   - Stores host values as workspace variables
//	Session   - One call's handles and temporaries, released on Close
//	Converter - Class-specific decode hook, registered at construction
//
// # Decoding Flow
//
//  1. exist('x', 'var') to report missing variables as not found
//  2. class(x) into a temporary, so aggregates are never bulk-copied
//  3. Dispatch: converter by class name, else numeric/char fetch
//  4. Cells: size(x), then x{i,j} per element; structs: fieldnames(x),
//     then x(1).f per field; both recurse through step 2
//  5. Close: destroy every handle, clear every temporary
//
// # Encoding Flow
//
//  1. Classify(v) → Input tagged variant
//  2. Scalars: evaluate "x = <literal>;"
//  3. Text and arrays: create foreign array, fill planes, put, destroy
//  4. Sparse, mappings and collections: NotImplemented
//
// # Layout
//
// Dense planes are column-major. Sparse matrices use compressed sparse
// columns: Jc has cols+1 non-decreasing entries and Jc[cols] is the stored
// count, which may be below the allocated capacity Nzmax.
package transcoder
