package bitio

import "encoding/binary"

// WordReader reads big-endian words from a byte slice.
//
// Reading past the end of the buffer sets the end-of-stream flag and yields
// zero words, so a caller can decode a whole run and check
// IsEndOfStream once at the end.
type WordReader struct {
	buf []byte // input byte buffer
	pos int    // byte position in buf
	eos bool   // end of stream flag
}

// NewWordReader creates a WordReader over data.
func NewWordReader(data []byte) *WordReader {
	return &WordReader{buf: data}
}

// ReadWord returns the next word, or 0 and sets the EOS flag when fewer than
// four bytes remain.
func (wr *WordReader) ReadWord() uint32 {
	if wr.eos || wr.pos+WordBytes > len(wr.buf) {
		wr.eos = true
		return 0
	}
	w := binary.BigEndian.Uint32(wr.buf[wr.pos:])
	wr.pos += WordBytes
	return w
}

// ReadWords fills dst and returns the number of complete words read.
func (wr *WordReader) ReadWords(dst []uint32) int {
	n := 0
	for n < len(dst) {
		w := wr.ReadWord()
		if wr.eos {
			break
		}
		dst[n] = w
		n++
	}
	return n
}

// Remaining returns the number of complete words left in the buffer.
func (wr *WordReader) Remaining() int {
	if wr.eos {
		return 0
	}
	return (len(wr.buf) - wr.pos) / WordBytes
}

// IsEndOfStream reports whether a read ran past the end of the buffer.
func (wr *WordReader) IsEndOfStream() bool {
	return wr.eos
}
