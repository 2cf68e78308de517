package mx

import "fmt"

// Memory is a foreign-owned byte region holding one array plane.
// Offsets are relative to the start of the plane. Multi-byte values are
// little-endian, matching the engine's native layout on supported hosts.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU16(offset uint32) (uint16, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU16(offset uint32, value uint16) error
	WriteU64(offset uint32, value uint64) error

	// Size is the plane length in bytes.
	Size() uint32
}

// View restricts a larger Memory to [base, base+size). Backends whose
// planes live in one shared address space hand out Views.
type View struct {
	mem  Memory
	base uint32
	size uint32
}

// NewView returns a window of size bytes starting at base.
func NewView(mem Memory, base, size uint32) *View {
	return &View{mem: mem, base: base, size: size}
}

func (v *View) check(offset, length uint32) error {
	if offset > v.size || length > v.size-offset {
		return fmt.Errorf("plane access out of bounds: offset=%d, length=%d, size=%d", offset, length, v.size)
	}
	return nil
}

func (v *View) Size() uint32 { return v.size }

func (v *View) Read(offset, length uint32) ([]byte, error) {
	if err := v.check(offset, length); err != nil {
		return nil, err
	}
	return v.mem.Read(v.base+offset, length)
}

func (v *View) Write(offset uint32, data []byte) error {
	if err := v.check(offset, uint32(len(data))); err != nil {
		return err
	}
	return v.mem.Write(v.base+offset, data)
}

func (v *View) ReadU16(offset uint32) (uint16, error) {
	if err := v.check(offset, 2); err != nil {
		return 0, err
	}
	return v.mem.ReadU16(v.base + offset)
}

func (v *View) ReadU64(offset uint32) (uint64, error) {
	if err := v.check(offset, 8); err != nil {
		return 0, err
	}
	return v.mem.ReadU64(v.base + offset)
}

func (v *View) WriteU16(offset uint32, value uint16) error {
	if err := v.check(offset, 2); err != nil {
		return err
	}
	return v.mem.WriteU16(v.base+offset, value)
}

func (v *View) WriteU64(offset uint32, value uint64) error {
	if err := v.check(offset, 8); err != nil {
		return err
	}
	return v.mem.WriteU64(v.base+offset, value)
}
