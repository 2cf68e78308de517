package matlab

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/wippyai/mxbridge/errors"
)

// library holds the resolved libeng and libmx entry points. Every field's
// signature matches the C declaration with mwSize and size_t as uintptr.
type library struct {
	engOpen         func(startcmd string) uintptr
	engClose        func(ep uintptr) int32
	engEvalString   func(ep uintptr, command string) int32
	engGetVariable  func(ep uintptr, name string) uintptr
	engPutVariable  func(ep uintptr, name string, pm uintptr) int32
	engOutputBuffer func(ep uintptr, buf unsafe.Pointer, n int32) int32

	mxGetClassID            func(pm uintptr) int32
	mxGetNumberOfDimensions func(pm uintptr) uintptr
	mxGetDimensions         func(pm uintptr) unsafe.Pointer
	mxGetNumberOfElements   func(pm uintptr) uintptr
	mxGetElementSize        func(pm uintptr) uintptr
	mxIsSparse              func(pm uintptr) bool
	mxIsComplex             func(pm uintptr) bool
	mxGetNzmax              func(pm uintptr) uintptr
	mxGetData               func(pm uintptr) unsafe.Pointer
	mxGetImagData           func(pm uintptr) unsafe.Pointer
	mxGetIr                 func(pm uintptr) unsafe.Pointer
	mxGetJc                 func(pm uintptr) unsafe.Pointer
	mxCreateNumericArray    func(ndim uintptr, dims unsafe.Pointer, class int32, complexity int32) uintptr
	mxCreateCharArray       func(ndim uintptr, dims unsafe.Pointer) uintptr
	mxDestroyArray          func(pm uintptr)
}

var (
	librariesMu sync.Mutex
	libraries   = map[string]*library{}
)

// loadLibrary opens libeng and libmx for cfg once per process.
func loadLibrary(cfg *Config) (*library, error) {
	key := cfg.LibraryPath("eng")
	librariesMu.Lock()
	defer librariesMu.Unlock()
	if lib, ok := libraries[key]; ok {
		return lib, nil
	}

	engHandle, err := openLibrary(key)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindResource, err, "open "+key)
	}
	mxPath := cfg.LibraryPath("mx")
	mxHandle, err := openLibrary(mxPath)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindResource, err, "open "+mxPath)
	}

	lib := &library{}
	bindings := []struct {
		fptr   any
		handle uintptr
		name   string
	}{
		{&lib.engOpen, engHandle, "engOpen"},
		{&lib.engClose, engHandle, "engClose"},
		{&lib.engEvalString, engHandle, "engEvalString"},
		{&lib.engGetVariable, engHandle, "engGetVariable"},
		{&lib.engPutVariable, engHandle, "engPutVariable"},
		{&lib.engOutputBuffer, engHandle, "engOutputBuffer"},
		{&lib.mxGetClassID, mxHandle, "mxGetClassID"},
		{&lib.mxGetNumberOfDimensions, mxHandle, "mxGetNumberOfDimensions"},
		{&lib.mxGetDimensions, mxHandle, "mxGetDimensions"},
		{&lib.mxGetNumberOfElements, mxHandle, "mxGetNumberOfElements"},
		{&lib.mxGetElementSize, mxHandle, "mxGetElementSize"},
		{&lib.mxIsSparse, mxHandle, "mxIsSparse"},
		{&lib.mxIsComplex, mxHandle, "mxIsComplex"},
		{&lib.mxGetNzmax, mxHandle, "mxGetNzmax"},
		{&lib.mxGetData, mxHandle, "mxGetData"},
		{&lib.mxGetImagData, mxHandle, "mxGetImagData"},
		{&lib.mxGetIr, mxHandle, "mxGetIr"},
		{&lib.mxGetJc, mxHandle, "mxGetJc"},
		{&lib.mxCreateNumericArray, mxHandle, "mxCreateNumericArray"},
		{&lib.mxCreateCharArray, mxHandle, "mxCreateCharArray"},
		{&lib.mxDestroyArray, mxHandle, "mxDestroyArray"},
	}
	for _, b := range bindings {
		if err := bind(b.fptr, b.handle, b.name); err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, b.name)
		}
	}

	Logger().Info("engine libraries loaded", zap.String("eng", key), zap.String("mx", mxPath))
	libraries[key] = lib
	return lib, nil
}

// bind resolves name, preferring the 64-bit versioned symbol.
func bind(fptr any, handle uintptr, name string) error {
	for _, sym := range []string{name + "_730", name} {
		addr, err := lookupSymbol(handle, sym)
		if err == nil && addr != 0 {
			purego.RegisterFunc(fptr, addr)
			return nil
		}
	}
	return fmt.Errorf("symbol %s not found", name)
}
