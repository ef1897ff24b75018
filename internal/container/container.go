// Package container reads and writes the compressed image file format: a
// two-line text header followed by one big-endian 32-bit word per 2x2 block,
// in row-major block order.
//
//	Compressed image format 2\n
//	<width> <height>\n
//	<word 0><word 1>...
//
// A file may additionally be wrapped in a single zstd frame.
package container

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/deepteams/rpeg/internal/bitio"
)

// Magic is the first header line, without its newline.
const Magic = "Compressed image format 2"

// Limits.
const (
	MaxDimension = 1 << 24         // largest accepted width or height
	MaxImageArea = uint64(1) << 32 // largest accepted width x height
	maxDigits    = 8               // longest accepted decimal dimension
)

// Common errors.
var (
	ErrInvalidHeader = errors.New("rpeg: invalid header")
	ErrTruncated     = errors.New("rpeg: truncated data")
	ErrTrailingData  = errors.New("rpeg: trailing data after last word")
	ErrInvalidImage  = errors.New("rpeg: invalid image dimensions")
	ErrTooLarge      = errors.New("rpeg: image too large")
)

// Header holds the image dimensions stored in the file.
type Header struct {
	Width  int
	Height int
}

// Blocks returns the number of coded words that follow the header.
func (h Header) Blocks() int {
	return (h.Width / 2) * (h.Height / 2)
}

// PayloadSize returns the byte length of the word stream.
func (h Header) PayloadSize() int {
	return h.Blocks() * bitio.WordBytes
}

// Validate checks that the dimensions can be stored and decoded.
func (h Header) Validate() error {
	if h.Width < 0 || h.Height < 0 || h.Width%2 != 0 || h.Height%2 != 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidImage, h.Width, h.Height)
	}
	if h.Width > MaxDimension || h.Height > MaxDimension ||
		uint64(h.Width)*uint64(h.Height) > MaxImageArea {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, h.Width, h.Height)
	}
	return nil
}

// AppendHeader appends the text header for h to dst.
func AppendHeader(dst []byte, h Header) []byte {
	dst = append(dst, Magic...)
	dst = append(dst, '\n')
	dst = strconv.AppendInt(dst, int64(h.Width), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(h.Height), 10)
	return append(dst, '\n')
}

// ParseHeader parses the text header at the start of data. It returns the
// header and the number of bytes consumed. Data that ends inside the header
// yields ErrTruncated.
func ParseHeader(data []byte) (Header, int, error) {
	pos := 0
	for ; pos < len(Magic); pos++ {
		if pos >= len(data) {
			return Header{}, 0, ErrTruncated
		}
		if data[pos] != Magic[pos] {
			return Header{}, 0, fmt.Errorf("%w: bad magic", ErrInvalidHeader)
		}
	}
	if pos >= len(data) {
		return Header{}, 0, ErrTruncated
	}
	if data[pos] != '\n' {
		return Header{}, 0, fmt.Errorf("%w: bad magic", ErrInvalidHeader)
	}
	pos++

	var h Header
	var err error
	if h.Width, pos, err = parseDimension(data, pos, ' '); err != nil {
		return Header{}, 0, fmt.Errorf("%w: width", err)
	}
	if h.Height, pos, err = parseDimension(data, pos, '\n'); err != nil {
		return Header{}, 0, fmt.Errorf("%w: height", err)
	}
	if err := h.Validate(); err != nil {
		return Header{}, 0, err
	}
	return h, pos, nil
}

// parseDimension reads a decimal number starting at pos and terminated by
// term. It returns the value and the position after term.
func parseDimension(data []byte, pos int, term byte) (int, int, error) {
	start := pos
	v := 0
	for ; pos < len(data) && data[pos] >= '0' && data[pos] <= '9'; pos++ {
		if pos-start >= maxDigits {
			return 0, 0, ErrTooLarge
		}
		v = v*10 + int(data[pos]-'0')
	}
	if pos >= len(data) {
		return 0, 0, ErrTruncated
	}
	if pos == start || data[pos] != term {
		return 0, 0, ErrInvalidHeader
	}
	return v, pos + 1, nil
}
