package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/mxbridge/engine/internal/memmod"
)

const pageSize = 65536

// linearMemory is the engine's address space: one wazero memory that all
// array planes are allocated from.
type linearMemory struct {
	runtime wazero.Runtime
	module  api.Module
	mem     api.Memory
}

func newLinearMemory(ctx context.Context, cfg *Config) (*linearMemory, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	mod, err := runtime.InstantiateWithConfig(ctx,
		memmod.Encode(cfg.InitialPages, cfg.MemoryLimitPages),
		wazero.NewModuleConfig().WithName("mxengine"))
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("instantiate memory module: %w", err)
	}
	mem := mod.ExportedMemory(memmod.ExportName)
	if mem == nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("memory module exports no memory")
	}
	return &linearMemory{runtime: runtime, module: mod, mem: mem}, nil
}

func (m *linearMemory) close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}

// grow extends the memory so that it holds at least end bytes.
func (m *linearMemory) grow(end uint64) error {
	size := uint64(m.mem.Size())
	if end <= size {
		return nil
	}
	pages := (end - size + pageSize - 1) / pageSize
	if _, ok := m.mem.Grow(uint32(pages)); !ok {
		return fmt.Errorf("out of memory: cannot grow by %d pages", pages)
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *linearMemory) Size() uint32 { return m.mem.Size() }

// Read returns a copy of length bytes at offset. Slices returned by wazero
// alias the memory and go stale on grow, so they are never handed out.
func (m *linearMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	return append([]byte(nil), data...), nil
}

func (m *linearMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *linearMemory) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.mem.ReadUint16Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

func (m *linearMemory) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

func (m *linearMemory) WriteU16(offset uint32, value uint16) error {
	if !m.mem.WriteUint16Le(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *linearMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}
