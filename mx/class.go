package mx

// ClassID is the foreign engine's element type tag. Values match the
// engine's own enumeration and cross the ABI unchanged.
type ClassID int32

const (
	ClassUnknown ClassID = iota
	ClassCell
	ClassStruct
	ClassLogical
	ClassChar
	ClassVoid
	ClassDouble
	ClassSingle
	ClassInt8
	ClassUint8
	ClassInt16
	ClassUint16
	ClassInt32
	ClassUint32
	ClassInt64
	ClassUint64
	ClassFunction
	ClassOpaque
	ClassObject
)

var classNames = [...]string{
	ClassUnknown:  "unknown",
	ClassCell:     "cell",
	ClassStruct:   "struct",
	ClassLogical:  "logical",
	ClassChar:     "char",
	ClassVoid:     "void",
	ClassDouble:   "double",
	ClassSingle:   "single",
	ClassInt8:     "int8",
	ClassUint8:    "uint8",
	ClassInt16:    "int16",
	ClassUint16:   "uint16",
	ClassInt32:    "int32",
	ClassUint32:   "uint32",
	ClassInt64:    "int64",
	ClassUint64:   "uint64",
	ClassFunction: "function_handle",
	ClassOpaque:   "opaque",
	ClassObject:   "object",
}

// String returns the name the engine's class() query reports.
func (c ClassID) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// IsNumeric reports whether elements of c are stored in a numeric plane.
// Logical counts as numeric; char does not.
func (c ClassID) IsNumeric() bool {
	return c == ClassLogical || (c >= ClassDouble && c <= ClassUint64)
}

// ParseClass maps a class name to its ClassID. Names the engine reports
// for user-defined classes come back as ClassObject.
func ParseClass(name string) ClassID {
	for id, n := range classNames {
		if n == name {
			return ClassID(id)
		}
	}
	if name == "" {
		return ClassUnknown
	}
	return ClassObject
}

// Complexity selects whether a numeric array carries an imaginary plane.
type Complexity int32

const (
	Real Complexity = iota
	Complex
)
