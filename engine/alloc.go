package engine

import (
	"fmt"
	"sort"
	"sync"
)

const (
	allocAlign = 8
	// allocBase keeps offset 0 unused so a zero pointer never names a block.
	allocBase = allocAlign
)

type span struct {
	ptr  uint32
	size uint32
}

// allocator is a first-fit free-list allocator over the linear memory.
// Blocks are zero-filled on allocation.
type allocator struct {
	mu    sync.Mutex
	mem   *linearMemory
	top   uint32
	free  []span // sorted by ptr, never adjacent
	inUse uint64
}

func newAllocator(mem *linearMemory) *allocator {
	return &allocator{mem: mem, top: allocBase}
}

func alignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

// Alloc returns a zeroed block of at least size bytes. Zero-size requests
// return pointer 0.
func (a *allocator) Alloc(size, align uint32) (uint32, error) {
	if size == 0 {
		return 0, nil
	}
	if align > allocAlign {
		return 0, fmt.Errorf("unsupported alignment %d", align)
	}
	if size > 1<<31 {
		return 0, fmt.Errorf("allocation of %d bytes too large", size)
	}
	size = alignUp(size, allocAlign)

	a.mu.Lock()
	defer a.mu.Unlock()
	ptr, ok := a.takeFree(size)
	if !ok {
		end := uint64(a.top) + uint64(size)
		if end > 1<<32-1 {
			return 0, fmt.Errorf("out of memory: %d bytes requested", size)
		}
		if err := a.mem.grow(end); err != nil {
			return 0, err
		}
		ptr = a.top
		a.top = uint32(end)
	}

	if err := a.mem.Write(ptr, make([]byte, size)); err != nil {
		return 0, err
	}
	a.inUse += uint64(size)
	debugf("alloc ptr=%d size=%d", ptr, size)
	return ptr, nil
}

func (a *allocator) takeFree(size uint32) (uint32, bool) {
	for i, s := range a.free {
		if s.size < size {
			continue
		}
		if s.size == size {
			a.free = append(a.free[:i], a.free[i+1:]...)
		} else {
			a.free[i] = span{ptr: s.ptr + size, size: s.size - size}
		}
		return s.ptr, true
	}
	return 0, false
}

// Free returns a block. Neighbouring free blocks are merged and a block
// ending at the top lowers the top instead.
func (a *allocator) Free(ptr, size, align uint32) {
	if ptr == 0 || size == 0 {
		return
	}
	size = alignUp(size, allocAlign)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inUse -= uint64(size)
	debugf("free ptr=%d size=%d", ptr, size)

	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].ptr > ptr })
	a.free = append(a.free, span{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = span{ptr: ptr, size: size}

	if i+1 < len(a.free) && a.free[i].ptr+a.free[i].size == a.free[i+1].ptr {
		a.free[i].size += a.free[i+1].size
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	if i > 0 && a.free[i-1].ptr+a.free[i-1].size == a.free[i].ptr {
		a.free[i-1].size += a.free[i].size
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
	if last := a.free[len(a.free)-1]; last.ptr+last.size == a.top {
		a.top = last.ptr
		a.free = a.free[:len(a.free)-1]
	}
}

// InUse is the number of bytes currently allocated.
func (a *allocator) InUse() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}
