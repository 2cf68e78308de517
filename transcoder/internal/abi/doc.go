// Package abi provides internal utilities for moving array planes between
// engine memory and Go slices.
//
// # Contents
//
//   - coerce.go: Widening of Go scalars without a foreign counterpart
//   - helpers.go: Checked size arithmetic shared by the codecs
//   - plane.go: Element-wise plane and index conversion
//
// This package is internal to the transcoder.
package abi
