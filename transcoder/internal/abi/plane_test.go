package abi

import (
	"math"
	"reflect"
	"testing"

	"github.com/wippyai/mxbridge/host"
)

func TestPlaneRoundTrip(t *testing.T) {
	planes := []any{
		[]bool{true, false, true},
		[]int8{-128, 0, 127},
		[]uint8{0, 1, 255},
		[]int16{math.MinInt16, -1, math.MaxInt16},
		[]uint16{0, 1, math.MaxUint16},
		[]int32{math.MinInt32, 0, math.MaxInt32},
		[]uint32{0, 7, math.MaxUint32},
		[]int64{math.MinInt64, -5, math.MaxInt64},
		[]uint64{0, 1 << 53, math.MaxUint64},
		[]float32{-1.5, 0, float32(math.Inf(1))},
		[]float64{math.SmallestNonzeroFloat64, -0.25, math.MaxFloat64},
	}

	for _, plane := range planes {
		kind, n := host.PlaneKind(plane)
		t.Run(kind.String(), func(t *testing.T) {
			buf := make([]byte, n*kind.Size())
			written, err := EncodePlane(plane, buf)
			if err != nil {
				t.Fatalf("EncodePlane: %v", err)
			}
			if written != len(buf) {
				t.Fatalf("wrote %d bytes, want %d", written, len(buf))
			}
			got, err := DecodePlane(kind, buf, n)
			if err != nil {
				t.Fatalf("DecodePlane: %v", err)
			}
			if !reflect.DeepEqual(got, plane) {
				t.Errorf("got %v, want %v", got, plane)
			}
		})
	}
}

func TestDecodePlaneDoesNotAlias(t *testing.T) {
	buf := []byte{1, 2, 3}
	got, err := DecodePlane(host.KindUint8, buf, 3)
	if err != nil {
		t.Fatal(err)
	}
	buf[0] = 99
	if got.([]uint8)[0] != 1 {
		t.Error("decoded plane aliases source bytes")
	}
}

func TestDecodePlaneShort(t *testing.T) {
	if _, err := DecodePlane(host.KindFloat64, make([]byte, 15), 2); err == nil {
		t.Error("expected short plane error")
	}
	if _, err := DecodePlane(host.KindInvalid, nil, 0); err == nil {
		t.Error("expected invalid kind error")
	}
}

func TestAllZero(t *testing.T) {
	tests := []struct {
		name  string
		plane any
		want  bool
	}{
		{"zeros", []float64{0, 0}, true},
		{"within tolerance", []float64{1e-12, -1e-9}, true},
		{"non-zero", []float64{0, 0.5}, false},
		{"nan", []float32{float32(math.NaN())}, false},
		{"int zeros", []int16{0, 0}, true},
		{"int non-zero", []int16{0, 1}, false},
		{"empty", []float64{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllZero(tt.plane, 1e-8); got != tt.want {
				t.Errorf("AllZero(%v) = %v, want %v", tt.plane, got, tt.want)
			}
		})
	}
}
