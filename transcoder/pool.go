package transcoder

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 1 << 20 // max pooled plane bytes
	poolInitCap = 256
)

// byte buffer pool for staging encoded planes
var planePool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, poolInitCap)
		return &buf
	},
}

func getPlaneBuf(size int) *[]byte {
	buf := planePool.Get().(*[]byte)
	if cap(*buf) < size {
		*buf = make([]byte, size)
	}
	*buf = (*buf)[:size]
	return buf
}

func putPlaneBuf(buf *[]byte) {
	if buf == nil || cap(*buf) > poolMaxCap {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	planePool.Put(buf)
}
