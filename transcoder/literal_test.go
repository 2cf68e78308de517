package transcoder

import (
	"math"
	"testing"

	"github.com/wippyai/mxbridge/host"
)

func TestScalarLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   host.Scalar
		want string
	}{
		{"true", host.NewScalar(true), "true"},
		{"false", host.NewScalar(false), "false"},
		{"double", host.NewScalar(2.5), "2.5"},
		{"negative int32", host.NewScalar(int32(-7)), "int32(-7)"},
		{"single", host.NewScalar(float32(0.1)), "single(0.1)"},
		{"uint64 max", host.NewScalar(uint64(math.MaxUint64)), "uint64(18446744073709551615)"},
		{"complex double", host.NewComplexScalar(1.0, -2.0), "complex(1, -2)"},
		{"complex uint8", host.NewComplexScalar(uint8(3), uint8(4)), "uint8(complex(3, 4))"},
		{"nan", host.NewScalar(math.NaN()), "NaN"},
		{"negative inf", host.NewScalar(math.Inf(-1)), "-Inf"},
		{"exponent", host.NewScalar(1e-300), "1e-300"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ScalarLiteral(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestScalarLiteral_Invalid(t *testing.T) {
	bad := []struct {
		name string
		in   host.Scalar
	}{
		{"complex logical", host.Scalar{Kind: host.KindBool, Re: true, Im: false}},
		{"logical int payload", host.Scalar{Kind: host.KindBool, Re: 1}},
		{"logical text payload", host.Scalar{Kind: host.KindBool, Re: "yes"}},
		{"kind mismatch", host.Scalar{Kind: host.KindInt16, Re: 3.0}},
		{"no kind", host.Scalar{Re: 1.0}},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if lit, err := ScalarLiteral(tc.in); err == nil {
				t.Errorf("expected error, got %q", lit)
			}
		})
	}
}
