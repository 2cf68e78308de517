package transcoder

import (
	"strings"
	"testing"
)

func TestTempNames(t *testing.T) {
	n := NewTempNames("tmp_")
	a, b := n.Next(), n.Next()
	if a != "tmp_0" || b != "tmp_1" {
		t.Fatalf("Next: got %q, %q", a, b)
	}
	if !n.Owns(a) || n.Owns("tmp_") || n.Owns("tmp_x") || n.Owns("other0") {
		t.Error("Owns must accept only prefix followed by a counter")
	}
}

func TestTempNames_Fallback(t *testing.T) {
	for _, prefix := range []string{"", "9bad", "has space", strings.Repeat("a", 60)} {
		if got := NewTempNames(prefix).Next(); got != DefaultTempPrefix+"0" {
			t.Errorf("prefix %q: got %q, want default", prefix, got)
		}
	}
}
