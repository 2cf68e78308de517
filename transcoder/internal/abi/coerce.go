package abi

import "math"

// Widen maps Go scalar types with no foreign element class onto ones that
// have one: int becomes int64, uint and uintptr become uint64. Values of
// other types are returned unchanged.
func Widen(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case uint:
		return uint64(v)
	case uintptr:
		return uint64(v)
	}
	return value
}

// WidenSlice applies Widen to the slice forms.
func WidenSlice(value any) any {
	switch v := value.(type) {
	case []int:
		out := make([]int64, len(v))
		for i, x := range v {
			out[i] = int64(x)
		}
		return out
	case []uint:
		out := make([]uint64, len(v))
		for i, x := range v {
			out[i] = uint64(x)
		}
		return out
	}
	return value
}

// CoerceToIndex converts a decoded numeric element to a non-negative int,
// rejecting fractions, NaN and values outside the int range.
func CoerceToIndex(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, v >= 0
	case int8:
		return int(v), v >= 0
	case int16:
		return int(v), v >= 0
	case int32:
		return int(v), v >= 0
	case int64:
		if v < 0 || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float32:
		return CoerceToIndex(float64(v))
	case float64:
		if v < 0 || v > math.MaxInt32 || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}
