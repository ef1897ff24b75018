package container

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Compression selects the outer framing of a file.
type Compression int

const (
	CompressionNone Compression = iota // header and words stored as-is
	CompressionZstd                    // whole file in one zstd frame
)

// String returns a human-readable compression name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// maxInflatedSize rejects frames declaring more content than the largest
// header plus MaxImageArea/4 words. Reads are further capped by the size
// the inflated header declares.
const maxInflatedSize = 64 + MaxImageArea

// maxWindowSize bounds the history buffer a frame may ask the decoder for.
// Frames written by this package use encoderWindowSize.
const (
	maxWindowSize     = 8 << 20
	encoderWindowSize = 1 << 20
)

// IsZstd reports whether data starts with a zstd frame.
func IsZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
		zstd.WithWindowSize(encoderWindowSize),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(maxInflatedSize),
		zstd.WithDecoderMaxWindow(maxWindowSize),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var zstdEncPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		return mustNewZstdDecoder()
	},
}

// compressZstd appends the zstd frame of data to dst.
func compressZstd(dst, data []byte) []byte {
	enc := zstdEncPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, dst)
	zstdEncPool.Put(enc)
	return out
}

// withZstdReader runs fn with a pooled decoder streaming the frame in data.
// Only what fn reads is inflated. The source must stay a *bytes.Reader: the
// decoder inflates inputs that expose Bytes() in full on Reset.
func withZstdReader(data []byte, fn func(r io.Reader) error) error {
	dec := zstdDecPool.Get().(*zstd.Decoder)
	defer zstdDecPool.Put(dec)
	if err := dec.Reset(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("rpeg: zstd decode: %w", err)
	}
	return fn(dec)
}

// readUpTo reads from r until n bytes or EOF.
func readUpTo(r io.Reader, n int) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("rpeg: zstd decode: %w", err)
	}
	return b, nil
}
