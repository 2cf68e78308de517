package engine

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/wippyai/mxbridge/mx"
)

type block struct {
	ptr  uint32
	size uint32
}

// Array is an array owned by the reference engine. Its planes live in the
// engine's linear memory. Cells and structs hold child arrays instead of
// planes; function handles hold a target name.
type Array struct {
	eng       *Engine
	class     mx.ClassID
	className string
	dims      []int
	complex   bool
	sparse    bool
	nzmax     int
	re        block
	im        block
	ir        block
	jc        block
	elems     []*Array
	fields    []string
	target    string
	handed    bool
	freed     bool
}

var _ mx.Array = (*Array)(nil)

var classWidths = map[mx.ClassID]int{
	mx.ClassLogical: 1,
	mx.ClassChar:    2,
	mx.ClassDouble:  8,
	mx.ClassSingle:  4,
	mx.ClassInt8:    1,
	mx.ClassUint8:   1,
	mx.ClassInt16:   2,
	mx.ClassUint16:  2,
	mx.ClassInt32:   4,
	mx.ClassUint32:  4,
	mx.ClassInt64:   8,
	mx.ClassUint64:  8,
}

func numel(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// normDims pads to two axes and drops trailing singleton axes beyond two.
func normDims(dims []int) []int {
	out := append([]int(nil), dims...)
	for len(out) < 2 {
		out = append(out, 1)
	}
	for len(out) > 2 && out[len(out)-1] == 1 {
		out = out[:len(out)-1]
	}
	return out
}

func (a *Array) ClassID() mx.ClassID { return a.class }

func (a *Array) Dimensions() []int { return append([]int(nil), a.dims...) }

func (a *Array) NumberOfElements() int { return numel(a.dims) }

func (a *Array) IsSparse() bool { return a.sparse }

func (a *Array) IsComplex() bool { return a.complex }

func (a *Array) Nzmax() int {
	if a.sparse {
		return a.nzmax
	}
	return a.NumberOfElements()
}

func (a *Array) view(b block, plane string) (mx.Memory, error) {
	if a.freed {
		return nil, fmt.Errorf("%s plane of destroyed array", plane)
	}
	if b.size == 0 {
		return nil, nil
	}
	return mx.NewView(a.eng.mem, b.ptr, b.size), nil
}

func (a *Array) RealData() (mx.Memory, error) { return a.view(a.re, "real") }

func (a *Array) ImagData() (mx.Memory, error) {
	if !a.complex {
		return nil, nil
	}
	return a.view(a.im, "imaginary")
}

func (a *Array) Ir() (mx.Memory, error) {
	if !a.sparse {
		return nil, fmt.Errorf("array is not sparse")
	}
	return a.view(a.ir, "row index")
}

func (a *Array) Jc() (mx.Memory, error) {
	if !a.sparse {
		return nil, fmt.Errorf("array is not sparse")
	}
	return a.view(a.jc, "column pointer")
}

// Destroy frees the array's planes and children. Destroying twice is a no-op.
func (a *Array) Destroy() {
	if a.freed {
		return
	}
	a.freed = true
	for _, b := range []block{a.re, a.im, a.ir, a.jc} {
		a.eng.alloc.Free(b.ptr, b.size, allocAlign)
	}
	for _, e := range a.elems {
		if e != nil {
			e.Destroy()
		}
	}
	a.elems = nil
	a.eng.arrayDestroyed(a)
}

// Class returns the class name as the engine's class() reports it.
func (a *Array) Class() string {
	if a.class == mx.ClassObject {
		return a.className
	}
	return a.class.String()
}

// Fields returns the field names of a struct or object.
func (a *Array) Fields() []string { return append([]string(nil), a.fields...) }

// Target returns the function a handle refers to.
func (a *Array) Target() string { return a.target }

// Elem returns element i (column-major) of a cell, or field j of struct
// element i at index i*len(fields)+j.
func (a *Array) Elem(i int) *Array {
	if i < 0 || i >= len(a.elems) {
		return nil
	}
	return a.elems[i]
}

// Float64s returns the real plane converted to float64.
func (a *Array) Float64s() ([]float64, error) {
	if a.sparse {
		return nil, fmt.Errorf("sparse arrays have no dense plane")
	}
	return a.plane(a.re, a.NumberOfElements())
}

// Imag64s returns the imaginary plane converted to float64, or nil.
func (a *Array) Imag64s() ([]float64, error) {
	if !a.complex {
		return nil, nil
	}
	if a.sparse {
		return nil, fmt.Errorf("sparse arrays have no dense plane")
	}
	return a.plane(a.im, a.NumberOfElements())
}

func (a *Array) plane(b block, n int) ([]float64, error) {
	width, ok := classWidths[a.class]
	if !ok {
		return nil, fmt.Errorf("%s arrays have no numeric plane", a.Class())
	}
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}
	raw, err := a.eng.mem.Read(b.ptr, uint32(n*width))
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = bitsToFloat(a.class, readBits(raw[i*width:], width))
	}
	return out, nil
}

// fill stores values into plane b, converting to the array's class.
func (a *Array) fill(b block, values []float64) error {
	width := classWidths[a.class]
	if len(values)*width != int(b.size) && !(len(values) == 0 && b.size == 0) {
		return fmt.Errorf("plane holds %d bytes, got %d values", b.size, len(values))
	}
	if len(values) == 0 {
		return nil
	}
	raw := make([]byte, len(values)*width)
	for i, v := range values {
		writeBits(raw[i*width:], width, floatToBits(a.class, v))
	}
	return a.eng.mem.Write(b.ptr, raw)
}

// setBits stores a raw element, bypassing float conversion.
func (a *Array) setBits(b block, i int, bits uint64) error {
	width := classWidths[a.class]
	raw := make([]byte, width)
	writeBits(raw, width, bits)
	return a.eng.mem.Write(b.ptr+uint32(i*width), raw)
}

// Text returns the rows of a char array joined by newlines, trailing
// blanks kept.
func (a *Array) Text() (string, error) {
	if a.class != mx.ClassChar {
		return "", fmt.Errorf("%s is not a char array", a.Class())
	}
	rows := a.textRows()
	return strings.Join(rows, "\n"), nil
}

func (a *Array) textRows() []string {
	n := a.NumberOfElements()
	if n == 0 {
		return []string{""}
	}
	r := a.dims[0]
	c := n / r
	raw, err := a.eng.mem.Read(a.re.ptr, uint32(n*2))
	if err != nil {
		return nil
	}
	out := make([]string, r)
	units := make([]uint16, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			units[j] = binary.LittleEndian.Uint16(raw[(i+j*r)*2:])
		}
		out[i] = string(utf16.Decode(units))
	}
	return out
}

func readBits(b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	}
	return binary.LittleEndian.Uint64(b)
}

func writeBits(b []byte, width int, v uint64) {
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	default:
		binary.LittleEndian.PutUint64(b, v)
	}
}

func bitsToFloat(class mx.ClassID, v uint64) float64 {
	switch class {
	case mx.ClassDouble:
		return math.Float64frombits(v)
	case mx.ClassSingle:
		return float64(math.Float32frombits(uint32(v)))
	case mx.ClassInt8:
		return float64(int8(v))
	case mx.ClassInt16:
		return float64(int16(v))
	case mx.ClassInt32:
		return float64(int32(v))
	case mx.ClassInt64:
		return float64(int64(v))
	}
	return float64(v)
}

// floatToBits converts f to class, rounding half away from zero and
// saturating at the class bounds like the engine's own casts.
func floatToBits(class mx.ClassID, f float64) uint64 {
	switch class {
	case mx.ClassDouble:
		return math.Float64bits(f)
	case mx.ClassSingle:
		return uint64(math.Float32bits(float32(f)))
	case mx.ClassLogical:
		if f != 0 {
			return 1
		}
		return 0
	case mx.ClassChar:
		return uint64(uint16(saturate(f, 0, math.MaxUint16)))
	case mx.ClassInt8:
		return uint64(uint8(int8(saturate(f, math.MinInt8, math.MaxInt8))))
	case mx.ClassUint8:
		return uint64(uint8(saturate(f, 0, math.MaxUint8)))
	case mx.ClassInt16:
		return uint64(uint16(int16(saturate(f, math.MinInt16, math.MaxInt16))))
	case mx.ClassUint16:
		return uint64(uint16(saturate(f, 0, math.MaxUint16)))
	case mx.ClassInt32:
		return uint64(uint32(int32(saturate(f, math.MinInt32, math.MaxInt32))))
	case mx.ClassUint32:
		return uint64(uint32(saturate(f, 0, math.MaxUint32)))
	case mx.ClassInt64:
		switch {
		case math.IsNaN(f):
			return 0
		case f >= math.MaxInt64:
			return math.MaxInt64
		case f <= math.MinInt64:
			return 1 << 63
		}
		return uint64(int64(math.Round(f)))
	case mx.ClassUint64:
		switch {
		case math.IsNaN(f), f <= 0:
			return 0
		case f >= math.MaxUint64:
			return math.MaxUint64
		}
		return uint64(math.Round(f))
	}
	return 0
}

func saturate(f, lo, hi float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	f = math.Round(f)
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
