package abi

import (
	"math"
	"testing"
)

func TestSafeMulU32(t *testing.T) {
	tests := []struct {
		name   string
		a, b   uint32
		want   uint32
		wantOK bool
	}{
		{"zero * zero", 0, 0, 0, true},
		{"zero * max", 0, math.MaxUint32, 0, true},
		{"max * zero", math.MaxUint32, 0, 0, true},
		{"one * one", 1, 1, 1, true},
		{"small * small", 100, 200, 20000, true},
		{"max * one", math.MaxUint32, 1, math.MaxUint32, true},
		{"one * max", 1, math.MaxUint32, math.MaxUint32, true},
		{"half * two", math.MaxUint32 / 2, 2, (math.MaxUint32 / 2) * 2, true},
		{"overflow", math.MaxUint32, 2, 0, false},
		{"overflow symmetric", 2, math.MaxUint32, 0, false},
		{"large overflow", 100000, 100000, 0, false},
		{"edge case ok", 65536, 65535, 65536 * 65535, true},
		{"edge case overflow", 65536, 65537, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SafeMulU32(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Errorf("SafeMulU32(%d, %d) ok = %v, want %v", tt.a, tt.b, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("SafeMulU32(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "nil"},
		{"int", 42, "int"},
		{"string", "hello", "string"},
		{"float64", 3.14, "float64"},
		{"bool", true, "bool"},
		{"uint32", uint32(1), "uint32"},
		{"slice", []int{1, 2, 3}, "[]int"},
		{"map", map[string]int{}, "map[string]int"},
		{"struct", struct{ X int }{}, "struct { X int }"},
		{"pointer", new(int), "*int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TypeName(tt.input)
			if got != tt.want {
				t.Errorf("TypeName(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestElementCount(t *testing.T) {
	tests := []struct {
		name   string
		dims   []int
		want   int
		wantOK bool
	}{
		{"empty dims", nil, 1, true},
		{"matrix", []int{2, 3}, 6, true},
		{"nd", []int{2, 3, 4}, 24, true},
		{"zero extent", []int{0, 5}, 0, true},
		{"zero after huge", []int{MaxElements, 0}, 0, true},
		{"negative", []int{-1, 2}, 0, false},
		{"overflow", []int{MaxElements, 2}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ElementCount(tt.dims)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("ElementCount(%v) = %d, %v; want %d, %v", tt.dims, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPlaneBytes(t *testing.T) {
	if got, ok := PlaneBytes(10, 8); !ok || got != 80 {
		t.Errorf("PlaneBytes(10, 8) = %d, %v", got, ok)
	}
	if _, ok := PlaneBytes(MaxPlaneBytes, 2); ok {
		t.Error("expected size limit failure")
	}
	if _, ok := PlaneBytes(-1, 8); ok {
		t.Error("expected failure for negative count")
	}
}

func TestCoerceToIndex(t *testing.T) {
	tests := []struct {
		in     any
		want   int
		wantOK bool
	}{
		{float64(3), 3, true},
		{float64(2.5), 0, false},
		{float64(-1), 0, false},
		{math.NaN(), 0, false},
		{int32(7), 7, true},
		{int8(-1), 0, false},
		{uint64(9), 9, true},
		{"3", 0, false},
	}
	for _, tt := range tests {
		got, ok := CoerceToIndex(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("CoerceToIndex(%v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
