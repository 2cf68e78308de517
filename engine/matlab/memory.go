package matlab

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// rawMemory is an mx.Memory over a plane owned by libmx.
type rawMemory struct {
	base unsafe.Pointer
	size uint32
}

func newRawMemory(base unsafe.Pointer, size uintptr) (*rawMemory, error) {
	if base == nil {
		return nil, nil
	}
	if uint64(size) > 1<<32-1 {
		return nil, fmt.Errorf("plane of %d bytes exceeds the 4GB view limit", size)
	}
	return &rawMemory{base: base, size: uint32(size)}, nil
}

func (m *rawMemory) bytes(offset, length uint32) ([]byte, error) {
	if offset > m.size || length > m.size-offset {
		return nil, fmt.Errorf("plane access out of bounds: offset=%d, length=%d, size=%d", offset, length, m.size)
	}
	return unsafe.Slice((*byte)(unsafe.Add(m.base, offset)), length), nil
}

func (m *rawMemory) Size() uint32 { return m.size }

func (m *rawMemory) Read(offset, length uint32) ([]byte, error) {
	b, err := m.bytes(offset, length)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (m *rawMemory) Write(offset uint32, data []byte) error {
	b, err := m.bytes(offset, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

func (m *rawMemory) ReadU16(offset uint32) (uint16, error) {
	b, err := m.bytes(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (m *rawMemory) ReadU64(offset uint32) (uint64, error) {
	b, err := m.bytes(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (m *rawMemory) WriteU16(offset uint32, value uint16) error {
	b, err := m.bytes(offset, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)
	return nil
}

func (m *rawMemory) WriteU64(offset uint32, value uint64) error {
	b, err := m.bytes(offset, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}

// cString copies a NUL-terminated string out of b.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
