// Package engine provides an in-process reference implementation of the
// mx.Engine session protocol.
//
// Array planes are allocated from a wazero linear memory, so the bridge
// reads and writes them through the same offset-based mx.Memory surface it
// uses against the real engine libraries. Variables live in a Go map and
// commands run through a small interpreter.
//
// # Architecture
//
//	Engine     - workspace, function table, array accounting
//	Array      - mx.Array whose planes are blocks of linear memory
//	allocator  - first-fit free list over the memory, grows on demand
//
// # Ownership
//
// GetVariable and the Create calls hand out arrays the caller must
// Destroy. PutVariable and Set copy or adopt into the workspace. Stats
// counts arrays handed out and destroyed, which makes the engine usable as
// a leak detector in tests:
//
//	before := eng.Stats()
//	_, _ = bridge.Decode(ctx, "x")
//	if eng.Stats().Outstanding() != before.Outstanding() { ... }
//
// # Commands
//
// The interpreter accepts the subset of the command language the bridge
// emits plus enough to build test data:
//
//	x = expr;                 assignment (a bare expression assigns ans)
//	[a, b] = f(args);         multiple outputs
//	clear a b;                remove variables, bare clear removes all
//	x(i, j)  x{i}  x.f        indexing, base-1, ':' selects an axis
//	[1 2; 3 4]  'text'  @f    matrix, char and function handle literals
//	+ - * / .* ./             arithmetic with scalar expansion
//
// Builtins cover size, numel, class, fieldnames, exist, help, struct,
// cell, complex, the class casts, sparse and full, and constants such as
// NaN and Inf. RegisterFunc adds further functions.
//
// Failing commands return the engine's diagnostic text inside an eval
// error, worded like the real engine's.
package engine
