package engine

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages caps the linear memory in pages (64KB each).
	// 0 means the wazero default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32

	// InitialPages is the memory size at startup. 0 means 1 page.
	InitialPages uint32
}

func (c *Config) withDefaults() *Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.InitialPages == 0 {
		out.InitialPages = 1
	}
	if out.MemoryLimitPages > 0 && out.InitialPages > out.MemoryLimitPages {
		out.InitialPages = out.MemoryLimitPages
	}
	return &out
}
