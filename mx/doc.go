// Package mx models the foreign engine's C array ABI.
//
// The engine exposes every value as an opaque array handle: a class tag,
// a dimension vector, sparse and complex flags, and one or more planes of
// raw element storage in column-major order.
//
//	┌───────────── Array ─────────────┐
//	│ ClassID   Dimensions  flags     │
//	│ RealData  ImagData   (dense)    │
//	│ Ir  Jc  RealData  ImagData      │ (sparse, compressed column)
//	└─────────────────────────────────┘
//
// Engine is the session protocol: evaluate a command, get and put named
// variables, and create arrays. Two implementations live under engine/:
// an in-process reference engine and a binding to the real engine
// libraries.
package mx
