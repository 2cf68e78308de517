// Package matlab binds the real engine through its C libraries (libeng and
// libmx) without cgo.
//
// The libraries are opened with purego from the installation's per-arch
// directory, <Root>/bin/<Arch>/. Symbols are resolved by their 64-bit
// versioned names first (mxGetDimensions_730) and fall back to the plain
// names.
//
//	eng, err := matlab.Open(ctx, &matlab.Config{Root: "/usr/local/MATLAB/R2024a"})
//	if err != nil { ... }
//	defer eng.Close(ctx)
//	b := mxbridge.New(eng)
//
// Command diagnostics are captured through engOutputBuffer, so a failing
// Eval carries the engine's own error text.
package matlab
