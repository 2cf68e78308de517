// Package host defines the Go-side values produced and consumed by the
// array bridge.
//
// Value is a closed union:
//
//	Scalar        single element, real or complex
//	Text          one character row
//	TextList      several character rows
//	*Dense        N-D numeric array, column-major, optional imaginary plane
//	*Sparse       2-D compressed-sparse-column matrix
//	Struct        field name to value
//	*Cell         N-D array of heterogeneous values
//	*FunctionRef  callable proxy for a foreign function handle
//
// Every Value is owned by the caller; none of them reference foreign
// memory.
package host
