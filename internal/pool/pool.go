// Package pool provides bucketed sync.Pool instances for the scanline and
// compression buffers the encoder allocates per image. Buffers are organized
// by size class so a batch of similarly sized images reuses the same memory.
package pool

import (
	"bytes"
	"sync"
)

// Size classes for bucketed pools.
const (
	Size4K    = 4096
	Size64K   = 65536
	Size1M    = 1048576
	Size16M   = 16777216
	MaxPooled = Size16M
)

// bucketIndex returns the pool index for a given size, or -1 when the size
// is too large to pool.
func bucketIndex(size int) int {
	switch {
	case size <= Size4K:
		return 0
	case size <= Size64K:
		return 1
	case size <= Size1M:
		return 2
	case size <= Size16M:
		return 3
	default:
		return -1
	}
}

var sizes = [4]int{Size4K, Size64K, Size1M, Size16M}

var pools [4]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]byte, sz)
				return &b
			},
		}
	}
}

// Get returns a byte slice of exactly size bytes. Its contents are
// undefined; callers must overwrite every byte they read back.
// Sizes above MaxPooled are allocated directly.
func Get(size int) []byte {
	idx := bucketIndex(size)
	if idx < 0 {
		return make([]byte, size)
	}
	bp := pools[idx].Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, sizes[idx])
	}
	return b[:size]
}

// Put returns a byte slice obtained from Get to its pool. Slices whose
// capacity does not match a size class exactly are dropped.
func Put(b []byte) {
	c := cap(b)
	idx := bucketIndex(c)
	if idx < 0 || sizes[idx] != c {
		return
	}
	b = b[:c]
	pools[idx].Put(&b)
}

var buffers = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// GetBuffer returns an empty bytes.Buffer for compressed output.
func GetBuffer() *bytes.Buffer {
	buf := buffers.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool. Buffers that grew beyond MaxPooled
// are dropped so one huge image does not pin its memory.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > MaxPooled {
		return
	}
	buffers.Put(buf)
}
