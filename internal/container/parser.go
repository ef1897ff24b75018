package container

import (
	"bytes"
	"fmt"
	"io"

	"github.com/deepteams/rpeg/internal/bitio"
)

// Image is a parsed file: its header and the coded words in row-major block
// order.
type Image struct {
	Header
	Compression Compression
	Words       []uint32
}

// Parse parses a complete file. The word stream must hold exactly
// Header.Blocks() words. A zstd frame is inflated only up to the size the
// header declares plus one byte, so a frame that inflates further fails with
// ErrTrailingData without being decoded in full.
func Parse(data []byte) (*Image, error) {
	if !IsZstd(data) {
		return parseRaw(data, CompressionNone)
	}

	var raw []byte
	err := withZstdReader(data, func(r io.Reader) error {
		prefix, err := readUpTo(r, maxHeaderLen)
		if err != nil {
			return err
		}
		h, n, err := ParseHeader(prefix)
		if err != nil {
			return err
		}
		want := n + h.PayloadSize()
		var buf bytes.Buffer
		buf.Grow(min(want+1, 1<<20))
		buf.Write(prefix)
		if rest := want + 1 - len(prefix); rest > 0 {
			if _, err := buf.ReadFrom(io.LimitReader(r, int64(rest))); err != nil {
				return fmt.Errorf("%w: %w", ErrTruncated, err)
			}
		}
		raw = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return parseRaw(raw, CompressionZstd)
}

// parseRaw parses an uncompressed file.
func parseRaw(raw []byte, c Compression) (*Image, error) {
	h, n, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	payload := raw[n:]
	if want := h.PayloadSize(); len(payload) != want {
		if len(payload) < want {
			return nil, fmt.Errorf("%w: have %d payload bytes, need %d", ErrTruncated, len(payload), want)
		}
		return nil, fmt.Errorf("%w: %d extra bytes", ErrTrailingData, len(payload)-want)
	}

	img := &Image{Header: h, Compression: c, Words: make([]uint32, h.Blocks())}
	wr := bitio.NewWordReader(payload)
	if got := wr.ReadWords(img.Words); got != len(img.Words) || wr.IsEndOfStream() {
		return nil, ErrTruncated
	}
	if wr.Remaining() != 0 {
		return nil, ErrTrailingData
	}
	return img, nil
}

// ParseConfig returns only the header and framing of a file. For a zstd
// frame only the first maxHeaderLen bytes are inflated.
func ParseConfig(data []byte) (Header, Compression, error) {
	if !IsZstd(data) {
		h, _, err := ParseHeader(data)
		return h, CompressionNone, err
	}
	var h Header
	err := withZstdReader(data, func(r io.Reader) error {
		prefix, err := readUpTo(r, maxHeaderLen)
		if err != nil {
			return err
		}
		h, _, err = ParseHeader(prefix)
		return err
	})
	return h, CompressionZstd, err
}
