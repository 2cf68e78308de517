// Package mxbridge moves numeric data between Go and a foreign numeric
// engine that exposes values only as opaque array handles.
//
// The engine side is the mx.Engine session protocol: evaluate a command,
// get and put named workspace variables, create arrays. The Go side is the
// host.Value union. A Bridge wires the transcoder between the two and owns
// the bookkeeping of one session: the handle table, temporary workspace
// names and the converter registry.
//
// # Architecture Overview
//
//	mxbridge/            Bridge: Decode, DecodeArray, Encode, Eval, calls
//	├── mx/              Foreign array ABI: ClassID, Array, Engine, Memory
//	├── host/            Host values: Scalar, Text, Dense, Sparse, Struct, Cell
//	├── transcoder/      Type registry and dense, sparse, text, aggregate codecs
//	├── resource/        Handle table and per-call scopes
//	├── errors/          Structured errors (phase, kind, path)
//	├── engine/          In-process reference engine on wazero linear memory
//	│   └── matlab/      Binding to the engine's shared libraries via purego
//	└── cmd/mxrun/       Command line and interactive terminal client
//
// # Quick Start
//
//	eng, err := engine.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	b := mxbridge.New(eng)
//	defer b.Close()
//
//	if err := b.Encode(ctx, "x", [][]float64{{1, 2}, {3, 4}}); err != nil {
//	    log.Fatal(err)
//	}
//	if err := b.Eval(ctx, "y = x * 2;"); err != nil {
//	    log.Fatal(err)
//	}
//	y, err := b.Decode(ctx, "y") // *host.Dense, 2x2 double
//
// # Calling Functions
//
// Function handles decode to *host.FunctionRef proxies bound to the bridge.
// Calling one pushes each argument under a temporary name, evaluates
// "[o1, o2] = f(a1, a2);" and decodes the outputs:
//
//	plus := b.Function("plus")
//	out, err := plus.Call(ctx, 1, 2.0, 3.0) // out[0] is host.Scalar 5
//
// # Resource Model
//
// Every array handle obtained during a call is destroyed before the call
// returns, on success and on error. Temporaries are cleared the same way,
// except those behind decoded function handles, which live until Release.
//
// # Thread Safety
//
// A Bridge is NOT thread-safe. It shares the single-owner contract of the
// engine session it wraps; synchronize externally to share one.
package mxbridge
