package transcoder

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
)

func TestRegistry_Bijection(t *testing.T) {
	if len(classKinds) != len(host.Kinds()) {
		t.Fatalf("registry has %d classes, host has %d kinds", len(classKinds), len(host.Kinds()))
	}
	for _, k := range host.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			class, err := ToClassID(k)
			if err != nil {
				t.Fatalf("ToClassID: %v", err)
			}
			back, err := ToHostKind(class)
			if err != nil {
				t.Fatalf("ToHostKind(%s): %v", class, err)
			}
			if back != k {
				t.Errorf("round trip: got %s, want %s", back, k)
			}
			if ElementSize(class) != k.Size() {
				t.Errorf("ElementSize(%s): got %d, want %d", class, ElementSize(class), k.Size())
			}
		})
	}
}

func TestRegistry_Names(t *testing.T) {
	tests := []struct {
		class mx.ClassID
		kind  host.Kind
	}{
		{mx.ClassLogical, host.KindBool},
		{mx.ClassDouble, host.KindFloat64},
		{mx.ClassSingle, host.KindFloat32},
		{mx.ClassUint64, host.KindUint64},
	}
	for _, tc := range tests {
		if got, _ := ToHostKind(tc.class); got != tc.kind {
			t.Errorf("ToHostKind(%s): got %s, want %s", tc.class, got, tc.kind)
		}
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	for _, class := range []mx.ClassID{mx.ClassCell, mx.ClassStruct, mx.ClassChar, mx.ClassFunction, mx.ClassObject, mx.ClassUnknown} {
		_, err := ToHostKind(class)
		if !stderrors.Is(err, errors.ErrUnsupportedType) {
			t.Errorf("ToHostKind(%s): expected unsupported type, got %v", class, err)
		}
	}
	if _, err := ToClassID(host.KindInvalid); !stderrors.Is(err, errors.ErrUnsupportedType) {
		t.Errorf("ToClassID(invalid): expected unsupported type, got %v", err)
	}
	if ElementSize(mx.ClassChar) != mx.CharSize {
		t.Errorf("ElementSize(char): got %d", ElementSize(mx.ClassChar))
	}
	if ElementSize(mx.ClassCell) != 0 {
		t.Errorf("ElementSize(cell): got %d", ElementSize(mx.ClassCell))
	}
}
