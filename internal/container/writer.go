package container

import (
	"fmt"
	"io"

	"github.com/deepteams/rpeg/internal/bitio"
)

// maxHeaderLen bounds the text header: magic, two numbers, three separators.
const maxHeaderLen = len(Magic) + 2*maxDigits + 3

// withRaw serializes the uncompressed file into a pooled buffer and hands it
// to fn. The buffer must not be retained after fn returns.
func withRaw(h Header, words []uint32, c Compression, fn func(raw []byte) error) error {
	if c != CompressionNone && c != CompressionZstd {
		return fmt.Errorf("rpeg: unknown compression %v", c)
	}
	if err := h.Validate(); err != nil {
		return err
	}
	if len(words) != h.Blocks() {
		return fmt.Errorf("%w: %d words for %dx%d", ErrInvalidImage, len(words), h.Width, h.Height)
	}

	ww := bitio.NewWordWriter(maxHeaderLen + h.PayloadSize())
	defer ww.Release()
	var hdr [maxHeaderLen]byte
	if _, err := ww.Write(AppendHeader(hdr[:0], h)); err != nil {
		return err
	}
	ww.PutWords(words)
	return fn(ww.Bytes())
}

// Marshal serializes a file to a new byte slice.
func Marshal(h Header, words []uint32, c Compression) ([]byte, error) {
	var out []byte
	err := withRaw(h, words, c, func(raw []byte) error {
		if c == CompressionZstd {
			out = compressZstd(nil, raw)
		} else {
			out = append([]byte(nil), raw...)
		}
		return nil
	})
	return out, err
}

// Write serializes a file to w.
func Write(w io.Writer, h Header, words []uint32, c Compression) error {
	return withRaw(h, words, c, func(raw []byte) error {
		if c == CompressionZstd {
			raw = compressZstd(nil, raw)
		}
		_, err := w.Write(raw)
		return err
	})
}
