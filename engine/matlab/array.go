package matlab

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/mxbridge/mx"
)

// array is an mx.Array backed by an mxArray pointer.
type array struct {
	lib       *library
	ptr       uintptr
	destroyed bool
}

var _ mx.Array = (*array)(nil)

func (a *array) ClassID() mx.ClassID { return mx.ClassID(a.lib.mxGetClassID(a.ptr)) }

func (a *array) Dimensions() []int {
	n := int(a.lib.mxGetNumberOfDimensions(a.ptr))
	p := a.lib.mxGetDimensions(a.ptr)
	if p == nil || n == 0 {
		return []int{0, 0}
	}
	raw := unsafe.Slice((*uintptr)(p), n)
	dims := make([]int, n)
	for i, d := range raw {
		dims[i] = int(d)
	}
	return dims
}

func (a *array) NumberOfElements() int { return int(a.lib.mxGetNumberOfElements(a.ptr)) }
func (a *array) IsSparse() bool        { return a.lib.mxIsSparse(a.ptr) }
func (a *array) IsComplex() bool       { return a.lib.mxIsComplex(a.ptr) }
func (a *array) Nzmax() int            { return int(a.lib.mxGetNzmax(a.ptr)) }

// valueCount is the number of element slots in each value plane.
func (a *array) valueCount() uintptr {
	if a.IsSparse() {
		return a.lib.mxGetNzmax(a.ptr)
	}
	return a.lib.mxGetNumberOfElements(a.ptr)
}

func (a *array) check() error {
	if a.destroyed {
		return fmt.Errorf("array was destroyed")
	}
	return nil
}

func (a *array) RealData() (mx.Memory, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	return memoryOrNil(a.lib.mxGetData(a.ptr), a.valueCount()*a.lib.mxGetElementSize(a.ptr))
}

func (a *array) ImagData() (mx.Memory, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	if !a.IsComplex() {
		return nil, nil
	}
	return memoryOrNil(a.lib.mxGetImagData(a.ptr), a.valueCount()*a.lib.mxGetElementSize(a.ptr))
}

func (a *array) Ir() (mx.Memory, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	if !a.IsSparse() {
		return nil, fmt.Errorf("array is not sparse")
	}
	return memoryOrNil(a.lib.mxGetIr(a.ptr), a.lib.mxGetNzmax(a.ptr)*mx.IndexSize)
}

func (a *array) Jc() (mx.Memory, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	if !a.IsSparse() {
		return nil, fmt.Errorf("array is not sparse")
	}
	dims := a.Dimensions()
	return memoryOrNil(a.lib.mxGetJc(a.ptr), uintptr(dims[1]+1)*mx.IndexSize)
}

func (a *array) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	a.lib.mxDestroyArray(a.ptr)
}

// memoryOrNil keeps nil planes as a nil interface rather than a typed nil.
func memoryOrNil(p unsafe.Pointer, size uintptr) (mx.Memory, error) {
	m, err := newRawMemory(p, size)
	if err != nil || m == nil {
		return nil, err
	}
	return m, nil
}
