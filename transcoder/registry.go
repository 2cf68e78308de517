package transcoder

import (
	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
)

// classKinds is the fixed bijection between numeric foreign classes and
// host element kinds. Complexity is carried separately by both sides.
var classKinds = map[mx.ClassID]host.Kind{
	mx.ClassLogical: host.KindBool,
	mx.ClassInt8:    host.KindInt8,
	mx.ClassUint8:   host.KindUint8,
	mx.ClassInt16:   host.KindInt16,
	mx.ClassUint16:  host.KindUint16,
	mx.ClassInt32:   host.KindInt32,
	mx.ClassUint32:  host.KindUint32,
	mx.ClassInt64:   host.KindInt64,
	mx.ClassUint64:  host.KindUint64,
	mx.ClassSingle:  host.KindFloat32,
	mx.ClassDouble:  host.KindFloat64,
}

var kindClasses = func() map[host.Kind]mx.ClassID {
	m := make(map[host.Kind]mx.ClassID, len(classKinds))
	for c, k := range classKinds {
		m[k] = c
	}
	return m
}()

// ToHostKind maps a numeric foreign class to its host element kind.
func ToHostKind(class mx.ClassID) (host.Kind, error) {
	if k, ok := classKinds[class]; ok {
		return k, nil
	}
	return host.KindInvalid, errors.UnsupportedType(errors.PhaseRegistry, "", class.String())
}

// ToClassID maps a host element kind to its numeric foreign class.
func ToClassID(kind host.Kind) (mx.ClassID, error) {
	if c, ok := kindClasses[kind]; ok {
		return c, nil
	}
	return mx.ClassUnknown, errors.UnsupportedType(errors.PhaseRegistry, kind.String(), "")
}

// ElementSize returns the storage width of one element of class, or 0 for
// classes without a flat element representation.
func ElementSize(class mx.ClassID) int {
	if class == mx.ClassChar {
		return mx.CharSize
	}
	if k, ok := classKinds[class]; ok {
		return k.Size()
	}
	return 0
}
