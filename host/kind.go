package host

// Kind is a host element type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

var kindSizes = [...]int{
	KindBool:    1,
	KindInt8:    1,
	KindUint8:   1,
	KindInt16:   2,
	KindUint16:  2,
	KindInt32:   4,
	KindUint32:  4,
	KindInt64:   8,
	KindUint64:  8,
	KindFloat32: 4,
	KindFloat64: 8,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Size is the storage width of one element in bytes.
func (k Kind) Size() int {
	if int(k) < len(kindSizes) {
		return kindSizes[k]
	}
	return 0
}

func (k Kind) Valid() bool {
	return k > KindInvalid && k <= KindFloat64
}

func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Kinds lists every valid element kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(KindFloat64))
	for k := KindBool; k <= KindFloat64; k++ {
		out = append(out, k)
	}
	return out
}

// Element is the set of Go types that can back an array plane.
type Element interface {
	bool | int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// KindFor returns the Kind backing T.
func KindFor[T Element]() Kind {
	var zero T
	return KindOf(zero)
}

// KindOf returns the Kind of a Go scalar, or KindInvalid.
func KindOf(v any) Kind {
	switch v.(type) {
	case bool:
		return KindBool
	case int8:
		return KindInt8
	case uint8:
		return KindUint8
	case int16:
		return KindInt16
	case uint16:
		return KindUint16
	case int32:
		return KindInt32
	case uint32:
		return KindUint32
	case int64:
		return KindInt64
	case uint64:
		return KindUint64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	}
	return KindInvalid
}

// sliceKind returns the Kind of a typed plane such as []int16.
func sliceKind(v any) (Kind, int) {
	switch s := v.(type) {
	case []bool:
		return KindBool, len(s)
	case []int8:
		return KindInt8, len(s)
	case []uint8:
		return KindUint8, len(s)
	case []int16:
		return KindInt16, len(s)
	case []uint16:
		return KindUint16, len(s)
	case []int32:
		return KindInt32, len(s)
	case []uint32:
		return KindUint32, len(s)
	case []int64:
		return KindInt64, len(s)
	case []uint64:
		return KindUint64, len(s)
	case []float32:
		return KindFloat32, len(s)
	case []float64:
		return KindFloat64, len(s)
	}
	return KindInvalid, 0
}

// makePlane allocates a zeroed plane of n elements of kind k.
func makePlane(k Kind, n int) any {
	switch k {
	case KindBool:
		return make([]bool, n)
	case KindInt8:
		return make([]int8, n)
	case KindUint8:
		return make([]uint8, n)
	case KindInt16:
		return make([]int16, n)
	case KindUint16:
		return make([]uint16, n)
	case KindInt32:
		return make([]int32, n)
	case KindUint32:
		return make([]uint32, n)
	case KindInt64:
		return make([]int64, n)
	case KindUint64:
		return make([]uint64, n)
	case KindFloat32:
		return make([]float32, n)
	case KindFloat64:
		return make([]float64, n)
	}
	return nil
}

// elementAt returns element i of a typed plane as a Go scalar.
func elementAt(plane any, i int) any {
	switch s := plane.(type) {
	case []bool:
		return s[i]
	case []int8:
		return s[i]
	case []uint8:
		return s[i]
	case []int16:
		return s[i]
	case []uint16:
		return s[i]
	case []int32:
		return s[i]
	case []uint32:
		return s[i]
	case []int64:
		return s[i]
	case []uint64:
		return s[i]
	case []float32:
		return s[i]
	case []float64:
		return s[i]
	}
	return nil
}

// ToFloat64 converts a Go scalar of any Element type to float64.
func ToFloat64(v any) float64 {
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int8:
		return float64(x)
	case uint8:
		return float64(x)
	case int16:
		return float64(x)
	case uint16:
		return float64(x)
	case int32:
		return float64(x)
	case uint32:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

// MakePlane allocates a zeroed typed plane of n elements of kind k.
func MakePlane(k Kind, n int) any { return makePlane(k, n) }

// PlaneKind reports the Kind and length of a typed plane such as []int16.
func PlaneKind(plane any) (Kind, int) { return sliceKind(plane) }
