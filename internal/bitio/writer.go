// Package bitio serializes streams of fixed-width 32-bit words.
//
// Words are written most significant byte first (big-endian), four bytes per
// word, with no padding or framing between them.
package bitio

import (
	"encoding/binary"

	"github.com/deepteams/rpeg/internal/pool"
)

// WordBytes is the serialized size of one word.
const WordBytes = 4

// WordWriter appends big-endian words and raw bytes to a growing buffer.
//
// The initial buffer comes from the shared byte pool; call Release once the
// bytes returned by Bytes are no longer needed.
type WordWriter struct {
	buf []byte // output buffer
	cur int    // current write position in buf
}

// NewWordWriter creates a WordWriter with room for expectedSize bytes.
func NewWordWriter(expectedSize int) *WordWriter {
	if expectedSize < pool.Size256B {
		expectedSize = pool.Size256B
	}
	return &WordWriter{
		buf: pool.Get(expectedSize),
	}
}

// PutWords appends every word of ws.
func (ww *WordWriter) PutWords(ws []uint32) {
	ww.grow(len(ws) * WordBytes)
	for _, w := range ws {
		binary.BigEndian.PutUint32(ww.buf[ww.cur:], w)
		ww.cur += WordBytes
	}
}

// Write appends p verbatim. It never fails; the signature lets a WordWriter
// serve as an io.Writer for header formatting.
func (ww *WordWriter) Write(p []byte) (int, error) {
	ww.grow(len(p))
	copy(ww.buf[ww.cur:], p)
	ww.cur += len(p)
	return len(p), nil
}

// grow ensures at least n bytes of capacity remain at ww.cur.
func (ww *WordWriter) grow(n int) {
	if ww.cur+n <= len(ww.buf) {
		return
	}
	newSize := len(ww.buf) * 3 / 2
	need := ww.cur + n
	if newSize < need {
		newSize = need
	}
	// Round up to next 1k boundary.
	newSize = ((newSize >> 10) + 1) << 10
	tmp := pool.Get(newSize)
	copy(tmp, ww.buf[:ww.cur])
	pool.Put(ww.buf)
	ww.buf = tmp
}

// Bytes returns the bytes written so far. The slice aliases the internal
// buffer and is invalidated by further writes or Release.
func (ww *WordWriter) Bytes() []byte {
	return ww.buf[:ww.cur]
}

// Release returns the buffer to the pool. The writer must not be used
// afterwards.
func (ww *WordWriter) Release() {
	pool.Put(ww.buf)
	ww.buf = nil
	ww.cur = 0
}
