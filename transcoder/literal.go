package transcoder

import (
	"math"
	"strconv"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
)

// ScalarLiteral renders s as an engine expression that evaluates to the
// same class and value: true, 2.5, int32(-7), single(0.1),
// complex(1, -2), uint8(complex(3, 4)).
//
// The engine parses numeric literals as double, so int64 and uint64
// magnitudes above 2^53 may not survive the round trip on engines that do
// not special-case integer casts.
func ScalarLiteral(s host.Scalar) (string, error) {
	if s.Kind == host.KindBool {
		if s.IsComplex() {
			return "", errors.InvalidInput(errors.PhaseEncode, "logical scalars cannot be complex")
		}
		b, ok := s.Re.(bool)
		if !ok {
			return "", errors.InvalidInput(errors.PhaseEncode, "logical scalar holds %T", s.Re)
		}
		if b {
			return "true", nil
		}
		return "false", nil
	}
	class, err := ToClassID(s.Kind)
	if err != nil {
		return "", err
	}
	if host.KindOf(s.Re) != s.Kind || (s.Im != nil && host.KindOf(s.Im) != s.Kind) {
		return "", errors.InvalidInput(errors.PhaseEncode, "scalar parts do not hold %s values", s.Kind)
	}

	lit := formatNumber(s.Re)
	if s.IsComplex() {
		lit = "complex(" + lit + ", " + formatNumber(s.Im) + ")"
	}
	if class != mx.ClassDouble {
		lit = class.String() + "(" + lit + ")"
	}
	return lit, nil
}

func formatNumber(v any) string {
	switch x := v.(type) {
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	}
	return "0"
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
