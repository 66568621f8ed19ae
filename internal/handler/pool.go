package handler

import (
	"bytes"
	"sync"
)

const (
	initialBufferSize = 512
	// Buffers grown past this by a large history listing are left to the GC
	maxPooledBufferSize = 64 << 10
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, initialBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
