//go:build !(darwin || linux)

package matlab

import (
	"fmt"
	"runtime"
)

func openLibrary(path string) (uintptr, error) {
	return 0, fmt.Errorf("loading %s: dynamic loading is not supported on %s", path, runtime.GOOS)
}

func lookupSymbol(uintptr, string) (uintptr, error) {
	return 0, fmt.Errorf("dynamic loading is not supported on %s", runtime.GOOS)
}
