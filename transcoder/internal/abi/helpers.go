package abi

import (
	"math"
	"reflect"
)

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

const (
	MaxPlaneBytes = 1 << 30 // 1 GB max single plane
	MaxElements   = 1 << 27 // 128M max elements
)

// ElementCount multiplies dimension extents, failing on negative extents
// or a product above MaxElements.
func ElementCount(dims []int) (int, bool) {
	n := 1
	for _, d := range dims {
		if d < 0 {
			return 0, false
		}
		if d == 0 {
			return 0, true
		}
		if n > MaxElements/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// PlaneBytes returns n*width, failing on overflow or above MaxPlaneBytes.
func PlaneBytes(n, width int) (uint32, bool) {
	if n < 0 || width <= 0 || uint64(n) > math.MaxUint32 {
		return 0, false
	}
	size, ok := SafeMulU32(uint32(n), uint32(width))
	if !ok || size > MaxPlaneBytes {
		return 0, false
	}
	return size, true
}
