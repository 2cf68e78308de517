package matlab

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultOutputBufferSize is the capacity of the buffer that captures
// command output, and with it error text.
const DefaultOutputBufferSize = 64 * 1024

// Config holds configuration for opening an engine session
type Config struct {
	// Root is the installation directory, the one holding bin/.
	Root string

	// Arch is the library directory name under bin/, such as glnxa64.
	// Empty means ask bin/mexext, then fall back to the host platform.
	Arch string

	// StartCommand is passed to engOpen. Empty starts the default engine.
	StartCommand string

	// OutputBufferSize caps captured command output. 0 means
	// DefaultOutputBufferSize.
	OutputBufferSize int
}

func (c *Config) withDefaults(ctx context.Context) *Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.OutputBufferSize <= 0 {
		out.OutputBufferSize = DefaultOutputBufferSize
	}
	if out.Arch == "" {
		out.Arch = DetectArch(ctx, out.Root)
	}
	return &out
}

var mexextArch = map[string]string{
	"mexa64":    "glnxa64",
	"mexmaci64": "maci64",
	"mexmaca64": "maca64",
	"mexw64":    "win64",
}

// ArchFromMexext maps a MEX file extension to its library directory name.
func ArchFromMexext(ext string) (string, bool) {
	arch, ok := mexextArch[strings.TrimSpace(ext)]
	return arch, ok
}

// HostArch returns the library directory name for the running platform,
// or "" when the engine does not ship one.
func HostArch() string {
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "linux/amd64":
		return "glnxa64"
	case "darwin/amd64":
		return "maci64"
	case "darwin/arm64":
		return "maca64"
	case "windows/amd64":
		return "win64"
	}
	return ""
}

// DetectArch runs <root>/bin/mexext and maps its answer. It falls back to
// HostArch when the tool is missing or prints something unknown.
func DetectArch(ctx context.Context, root string) string {
	if root != "" {
		out, err := exec.CommandContext(ctx, filepath.Join(root, "bin", "mexext")).Output()
		if err == nil {
			if arch, ok := ArchFromMexext(string(out)); ok {
				return arch
			}
		}
	}
	return HostArch()
}

// LibraryPath returns the path of a library such as "eng" or "mx".
func (c *Config) LibraryPath(name string) string {
	return filepath.Join(c.Root, "bin", c.Arch, libraryFile(name))
}

func libraryFile(name string) string {
	switch runtime.GOOS {
	case "darwin":
		return "lib" + name + ".dylib"
	case "windows":
		return "lib" + name + ".dll"
	}
	return "lib" + name + ".so"
}
