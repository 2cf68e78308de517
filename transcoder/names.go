package transcoder

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/wippyai/mxbridge/mx"
)

// DefaultTempPrefix prefixes workspace names the bridge creates for itself.
const DefaultTempPrefix = "mxbridge_tmp"

// TempNames hands out unique workspace names for intermediate values.
type TempNames struct {
	prefix string
	next   atomic.Uint64
}

// NewTempNames returns a generator using prefix, or DefaultTempPrefix when
// prefix is not a usable identifier.
func NewTempNames(prefix string) *TempNames {
	if !mx.ValidName(prefix) || len(prefix) > mx.MaxNameLength-20 {
		prefix = DefaultTempPrefix
	}
	return &TempNames{prefix: prefix}
}

func (t *TempNames) Next() string {
	return t.prefix + strconv.FormatUint(t.next.Add(1)-1, 10)
}

// Owns reports whether name was produced by this generator's prefix.
func (t *TempNames) Owns(name string) bool {
	if !strings.HasPrefix(name, t.prefix) || len(name) == len(t.prefix) {
		return false
	}
	_, err := strconv.ParseUint(name[len(t.prefix):], 10, 64)
	return err == nil
}
