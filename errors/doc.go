// Package errors provides structured error types for the array bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the element path, Go type and foreign
// class names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindShapeMismatch).
//		Path("x", "imag").
//		ForeignType("double").
//		Detail("buffer holds %d bytes, dimensions need %d", got, want).
//		Build()
//
// Or use convenience constructors for the common taxonomy:
//
//	err := errors.UnsupportedType(errors.PhaseRegistry, "", "cell")
//	err := errors.Eval(command, engineText)
//
// Phase-less sentinels (ErrNotFound, ErrEval, ...) match any error of the
// same Kind through the standard errors.Is.
package errors
