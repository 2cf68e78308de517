package matlab

import (
	"context"
	"runtime"
	"strings"
	"unicode/utf16"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/mx"
)

// Engine is one session with a running engine process.
type Engine struct {
	lib    *library
	ep     uintptr
	out    []byte // registered with engOutputBuffer for the session's lifetime
	closed bool
}

var _ mx.Engine = (*Engine)(nil)

// Open loads the libraries and starts an engine session.
func Open(ctx context.Context, cfg *Config) (*Engine, error) {
	cfg = cfg.withDefaults(ctx)
	if cfg.Arch == "" {
		return nil, errors.New(errors.PhaseLoad, errors.KindUnsupported).
			Detail("no engine libraries for %s/%s", runtime.GOOS, runtime.GOARCH).
			Build()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lib, err := loadLibrary(cfg)
	if err != nil {
		return nil, err
	}

	ep := lib.engOpen(cfg.StartCommand)
	if ep == 0 {
		return nil, errors.Resource(errors.PhaseSession, "engOpen", nil)
	}
	e := &Engine{lib: lib, ep: ep, out: make([]byte, cfg.OutputBufferSize+1)}
	lib.engOutputBuffer(ep, unsafe.Pointer(&e.out[0]), int32(cfg.OutputBufferSize))
	Logger().Debug("engine session opened", zap.String("arch", cfg.Arch))
	return e, nil
}

func (e *Engine) check(ctx context.Context) error {
	if e.closed {
		return errors.Closed(errors.PhaseSession, "engine")
	}
	return ctx.Err()
}

// Eval runs command. The engine reports failures only through its output,
// so captured text starting with an error marker becomes an eval error.
func (e *Engine) Eval(ctx context.Context, command string) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	clear(e.out)
	if rc := e.lib.engEvalString(e.ep, command); rc != 0 {
		return errors.Wrap(errors.PhaseSession, errors.KindClosed, nil, "engine session terminated")
	}
	if text := strings.TrimSpace(cString(e.out)); isErrorOutput(text) {
		return errors.Eval(command, engineMessage(text))
	}
	return nil
}

// Output returns what the last command printed.
func (e *Engine) Output() string { return cString(e.out) }

func isErrorOutput(text string) bool {
	return strings.HasPrefix(text, "Error") || strings.HasPrefix(text, "??? ")
}

// engineMessage strips the error banner, keeping the diagnostic lines.
func engineMessage(text string) string {
	text = strings.TrimPrefix(text, "??? ")
	if strings.HasPrefix(text, "Error using ") || strings.HasPrefix(text, "Error: ") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			return strings.TrimSpace(text[i+1:])
		}
		return strings.TrimSpace(strings.TrimPrefix(text, "Error: "))
	}
	return text
}

// GetVariable returns a caller-owned copy of name.
func (e *Engine) GetVariable(ctx context.Context, name string) (mx.Array, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	ptr := e.lib.engGetVariable(e.ep, name)
	if ptr == 0 {
		return nil, errors.NotFound(errors.PhaseSession, "variable", name)
	}
	return &array{lib: e.lib, ptr: ptr}, nil
}

// PutVariable copies a into the workspace. a must come from this library.
func (e *Engine) PutVariable(ctx context.Context, name string, a mx.Array) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	if !mx.ValidName(name) {
		return errors.InvalidInput(errors.PhaseSession, "invalid variable name %q", name)
	}
	arr, ok := a.(*array)
	if !ok || arr.lib != e.lib || arr.destroyed {
		return errors.InvalidInput(errors.PhaseSession, "array %T does not belong to this engine", a)
	}
	if rc := e.lib.engPutVariable(e.ep, name, arr.ptr); rc != 0 {
		return errors.New(errors.PhaseSession, errors.KindResource).
			Detail("engPutVariable(%s) returned %d", name, rc).
			Build()
	}
	return nil
}

func (e *Engine) CreateNumericArray(dims []int, class mx.ClassID, complexity mx.Complexity) (mx.Array, error) {
	if e.closed {
		return nil, errors.Closed(errors.PhaseSession, "engine")
	}
	sizes := mwSizes(dims)
	ptr := e.lib.mxCreateNumericArray(uintptr(len(sizes)), unsafe.Pointer(&sizes[0]), int32(class), int32(complexity))
	runtime.KeepAlive(sizes)
	if ptr == 0 {
		return nil, errors.Resource(errors.PhaseSession, "mxCreateNumericArray", nil)
	}
	return &array{lib: e.lib, ptr: ptr}, nil
}

// CreateCharArray builds the matrix as UTF-16 so non-ASCII text survives.
func (e *Engine) CreateCharArray(rows []string) (mx.Array, error) {
	if e.closed {
		return nil, errors.Closed(errors.PhaseSession, "engine")
	}
	encoded := make([][]uint16, len(rows))
	cols := 0
	for i, r := range rows {
		encoded[i] = utf16.Encode([]rune(r))
		cols = max(cols, len(encoded[i]))
	}
	sizes := mwSizes([]int{len(rows), cols})
	ptr := e.lib.mxCreateCharArray(2, unsafe.Pointer(&sizes[0]))
	runtime.KeepAlive(sizes)
	if ptr == 0 {
		return nil, errors.Resource(errors.PhaseSession, "mxCreateCharArray", nil)
	}
	arr := &array{lib: e.lib, ptr: ptr}
	if len(rows) == 0 || cols == 0 {
		return arr, nil
	}

	data, err := arr.RealData()
	if err != nil || data == nil {
		arr.Destroy()
		return nil, errors.Resource(errors.PhaseSession, "mxCreateCharArray", err)
	}
	for i, units := range encoded {
		for j := 0; j < cols; j++ {
			u := uint16(' ')
			if j < len(units) {
				u = units[j]
			}
			if err := data.WriteU16(uint32((i+j*len(rows))*mx.CharSize), u); err != nil {
				arr.Destroy()
				return nil, err
			}
		}
	}
	return arr, nil
}

func mwSizes(dims []int) []uintptr {
	out := make([]uintptr, max(len(dims), 2))
	for i, d := range dims {
		out[i] = uintptr(d)
	}
	if len(dims) < 2 {
		for i := len(dims); i < 2; i++ {
			out[i] = 1
		}
	}
	return out
}

// Close ends the session. Arrays obtained from it stay valid until
// destroyed; they belong to libmx, not the session.
func (e *Engine) Close(ctx context.Context) error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.lib.engOutputBuffer(e.ep, nil, 0)
	runtime.KeepAlive(e.out)
	rc := e.lib.engClose(e.ep)
	if rc != 0 {
		return errors.New(errors.PhaseSession, errors.KindResource).
			Detail("engClose returned %d", rc).
			Build()
	}
	Logger().Debug("engine session closed")
	return nil
}
