package matlab

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"runtime"
	"testing"
	"unsafe"

	"github.com/wippyai/mxbridge/errors"
)

func TestArchFromMexext(t *testing.T) {
	tests := []struct {
		ext  string
		want string
		ok   bool
	}{
		{"mexa64\n", "glnxa64", true},
		{"mexmaca64", "maca64", true},
		{"mexw64", "win64", true},
		{"mexsol", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.ext, func(t *testing.T) {
			got, ok := ArchFromMexext(tc.ext)
			if got != tc.want || ok != tc.ok {
				t.Errorf("got %q,%v want %q,%v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := (&Config{Root: t.TempDir()}).withDefaults(context.Background())
	if cfg.OutputBufferSize != DefaultOutputBufferSize {
		t.Errorf("OutputBufferSize: got %d", cfg.OutputBufferSize)
	}
	if cfg.Arch != HostArch() {
		t.Errorf("Arch without mexext: got %q, want host %q", cfg.Arch, HostArch())
	}

	cfg = (&Config{Arch: "glnxa64", OutputBufferSize: 10}).withDefaults(context.Background())
	if cfg.Arch != "glnxa64" || cfg.OutputBufferSize != 10 {
		t.Errorf("explicit values overridden: %+v", cfg)
	}
}

func TestConfig_LibraryPath(t *testing.T) {
	cfg := &Config{Root: "/opt/engine", Arch: "glnxa64"}
	got := cfg.LibraryPath("eng")
	dir := filepath.Join("/opt/engine", "bin", "glnxa64")
	if filepath.Dir(got) != dir {
		t.Errorf("dir: got %q, want %q", filepath.Dir(got), dir)
	}
	want := map[string]string{"darwin": "libeng.dylib", "windows": "libeng.dll"}[runtime.GOOS]
	if want == "" {
		want = "libeng.so"
	}
	if filepath.Base(got) != want {
		t.Errorf("file: got %q, want %q", filepath.Base(got), want)
	}
}

func TestOpen_MissingLibraries(t *testing.T) {
	_, err := Open(context.Background(), &Config{Root: t.TempDir(), Arch: "glnxa64"})
	if err == nil {
		t.Fatal("expected a load error")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseLoad {
		t.Errorf("got %v, want a load phase error", err)
	}
}

func TestRawMemory(t *testing.T) {
	buf := make([]byte, 16)
	m, err := newRawMemory(unsafe.Pointer(&buf[0]), uintptr(len(buf)))
	if err != nil {
		t.Fatal(err)
	}

	if err := m.WriteU64(8, 0x0102030405060708); err != nil {
		t.Fatal(err)
	}
	if buf[8] != 0x08 || buf[15] != 0x01 {
		t.Errorf("not little-endian: % x", buf[8:])
	}
	v, err := m.ReadU16(14)
	if err != nil || v != 0x0102 {
		t.Errorf("ReadU16: got %#x, %v", v, err)
	}
	if w, err := m.ReadU64(8); err != nil || w != 0x0102030405060708 {
		t.Errorf("ReadU64: got %#x, %v", w, err)
	}
	if err := m.WriteU16(15, 1); err == nil {
		t.Error("expected out of bounds write error")
	}
	if _, err := m.Read(10, 7); err == nil {
		t.Error("expected out of bounds read error")
	}

	data, _ := m.Read(8, 2)
	data[0] = 0xff
	if buf[8] == 0xff {
		t.Error("Read must return a copy")
	}

	if m, err := newRawMemory(nil, 8); m != nil || err != nil {
		t.Errorf("nil plane: got %v, %v", m, err)
	}
}

func TestEngineMessage(t *testing.T) {
	tests := []struct {
		out  string
		err  bool
		want string
	}{
		{"Error using size\nNot enough input arguments.", true, "Not enough input arguments."},
		{"Undefined function or variable 'x'.", false, ""},
		{"??? Undefined function or variable 'x'.", true, "Undefined function or variable 'x'."},
		{"Error: Invalid expression.", true, "Invalid expression."},
		{"ans =\n     3", false, ""},
	}
	for _, tc := range tests {
		t.Run(tc.out, func(t *testing.T) {
			if got := isErrorOutput(tc.out); got != tc.err {
				t.Fatalf("isErrorOutput: got %v", got)
			}
			if tc.err {
				if got := engineMessage(tc.out); got != tc.want {
					t.Errorf("engineMessage: got %q, want %q", got, tc.want)
				}
			}
		})
	}
}

func TestCString(t *testing.T) {
	if got := cString([]byte("abc\x00def")); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := cString([]byte("abc")); got != "abc" {
		t.Errorf("unterminated: got %q", got)
	}
}
