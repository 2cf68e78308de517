package abi

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wippyai/mxbridge/host"
)

var le = binary.LittleEndian

// DecodePlane converts the first n elements of b into a typed slice of
// kind. Each element is converted individually; the result never aliases b.
func DecodePlane(kind host.Kind, b []byte, n int) (any, error) {
	width := kind.Size()
	if width == 0 {
		return nil, fmt.Errorf("invalid element kind %s", kind)
	}
	if len(b) < n*width {
		return nil, fmt.Errorf("plane holds %d bytes, need %d", len(b), n*width)
	}
	switch kind {
	case host.KindBool:
		out := make([]bool, n)
		for i := range out {
			out[i] = b[i] != 0
		}
		return out, nil
	case host.KindInt8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(b[i])
		}
		return out, nil
	case host.KindUint8:
		out := make([]uint8, n)
		copy(out, b[:n])
		return out, nil
	case host.KindInt16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(le.Uint16(b[i*2:]))
		}
		return out, nil
	case host.KindUint16:
		out := make([]uint16, n)
		for i := range out {
			out[i] = le.Uint16(b[i*2:])
		}
		return out, nil
	case host.KindInt32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(le.Uint32(b[i*4:]))
		}
		return out, nil
	case host.KindUint32:
		out := make([]uint32, n)
		for i := range out {
			out[i] = le.Uint32(b[i*4:])
		}
		return out, nil
	case host.KindInt64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(le.Uint64(b[i*8:]))
		}
		return out, nil
	case host.KindUint64:
		out := make([]uint64, n)
		for i := range out {
			out[i] = le.Uint64(b[i*8:])
		}
		return out, nil
	case host.KindFloat32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(le.Uint32(b[i*4:]))
		}
		return out, nil
	case host.KindFloat64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(le.Uint64(b[i*8:]))
		}
		return out, nil
	}
	return nil, fmt.Errorf("invalid element kind %s", kind)
}

// EncodePlane writes every element of a typed plane into dst and returns
// the number of bytes written.
func EncodePlane(plane any, dst []byte) (int, error) {
	kind, n := host.PlaneKind(plane)
	if kind == host.KindInvalid {
		return 0, fmt.Errorf("unsupported plane type %s", TypeName(plane))
	}
	need := n * kind.Size()
	if len(dst) < need {
		return 0, fmt.Errorf("destination holds %d bytes, need %d", len(dst), need)
	}
	switch p := plane.(type) {
	case []bool:
		for i, v := range p {
			dst[i] = 0
			if v {
				dst[i] = 1
			}
		}
	case []int8:
		for i, v := range p {
			dst[i] = uint8(v)
		}
	case []uint8:
		copy(dst, p)
	case []int16:
		for i, v := range p {
			le.PutUint16(dst[i*2:], uint16(v))
		}
	case []uint16:
		for i, v := range p {
			le.PutUint16(dst[i*2:], v)
		}
	case []int32:
		for i, v := range p {
			le.PutUint32(dst[i*4:], uint32(v))
		}
	case []uint32:
		for i, v := range p {
			le.PutUint32(dst[i*4:], v)
		}
	case []int64:
		for i, v := range p {
			le.PutUint64(dst[i*8:], uint64(v))
		}
	case []uint64:
		for i, v := range p {
			le.PutUint64(dst[i*8:], v)
		}
	case []float32:
		for i, v := range p {
			le.PutUint32(dst[i*4:], math.Float32bits(v))
		}
	case []float64:
		for i, v := range p {
			le.PutUint64(dst[i*8:], math.Float64bits(v))
		}
	}
	return need, nil
}

// AllZero reports whether every element of plane lies within tol of zero.
// Integer planes must be exactly zero.
func AllZero(plane any, tol float64) bool {
	kind, n := host.PlaneKind(plane)
	if kind == host.KindInvalid {
		return false
	}
	switch p := plane.(type) {
	case []float32:
		for _, v := range p {
			if math.Abs(float64(v)) > tol || v != v {
				return false
			}
		}
		return true
	case []float64:
		for _, v := range p {
			if math.Abs(v) > tol || v != v {
				return false
			}
		}
		return true
	}
	d, err := host.FromPlanes(host.Shape{n, 1}, plane, nil)
	if err != nil {
		return false
	}
	for i := 0; i < n; i++ {
		if host.ToFloat64(d.Element(i)) != 0 {
			return false
		}
	}
	return true
}
