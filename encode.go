package rpeg

import (
	"fmt"
	"image"
	"io"

	"github.com/deepteams/rpeg/internal/container"
	"github.com/deepteams/rpeg/internal/lossy"
	"github.com/deepteams/rpeg/internal/pool"
	"github.com/deepteams/rpeg/internal/raster"
)

// MaxDimension is the maximum allowed width or height of an encoded image,
// in pixels.
const MaxDimension = container.MaxDimension

// Compression selects the outer framing of an encoded file.
type Compression = container.Compression

const (
	// CompressionNone writes the header and words as-is. Output size is
	// exactly header + width*height bytes.
	CompressionNone = container.CompressionNone
	// CompressionZstd wraps the whole file in one zstd frame.
	CompressionZstd = container.CompressionZstd
)

// EncoderOptions controls rpeg encoding parameters. The block quantizers
// are fixed by the format, so only the framing and the amount of parallelism
// are tunable.
type EncoderOptions struct {
	// Compression selects the outer framing (default CompressionNone).
	Compression Compression

	// Concurrency is the number of goroutines coding block rows. Zero uses
	// GOMAXPROCS; 1 codes on the calling goroutine. The output is identical
	// for every value.
	Concurrency int
}

// DefaultOptions returns uncompressed output with automatic concurrency.
func DefaultOptions() *EncoderOptions {
	return &EncoderOptions{
		Compression: CompressionNone,
		Concurrency: 0,
	}
}

// validateOptions returns an error describing the first invalid parameter
// found, or nil if the options are valid.
func validateOptions(opts *EncoderOptions) error {
	if opts.Compression != CompressionNone && opts.Compression != CompressionZstd {
		return fmt.Errorf("rpeg: invalid Compression %d (must be CompressionNone or CompressionZstd)", int(opts.Compression))
	}
	if opts.Concurrency < 0 {
		return fmt.Errorf("rpeg: invalid Concurrency %d (must be >= 0)", opts.Concurrency)
	}
	return nil
}

// Encode writes the image img to w in rpeg format. Odd dimensions lose their
// last column or row; an image narrower or shorter than 2 pixels encodes to a
// valid file with no blocks. If opts is nil, DefaultOptions() is used.
func Encode(w io.Writer, img image.Image, opts *EncoderOptions) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateOptions(opts); err != nil {
		return err
	}

	imgW, imgH := img.Bounds().Dx(), img.Bounds().Dy()
	if imgW > MaxDimension || imgH > MaxDimension {
		return fmt.Errorf("rpeg: image dimension %dx%d exceeds maximum %d", imgW, imgH, MaxDimension)
	}

	g := raster.FromImage(img)
	if !g.Even() {
		g = raster.Trim(g)
	}
	p := lossy.PlaneFromGrid(g)

	n := lossy.BlockCount(p.Width, p.Height)
	words := pool.GetWords(n)
	defer pool.PutWords(words)
	if err := lossy.EncodePlaneTo(words, p, opts.Concurrency); err != nil {
		return fmt.Errorf("rpeg: encoding blocks: %w", err)
	}

	h := container.Header{Width: p.Width, Height: p.Height}
	return container.Write(w, h, words, opts.Compression)
}

// DecoderOptions controls rpeg decoding.
type DecoderOptions struct {
	// Concurrency is the number of goroutines decoding block rows. Zero uses
	// GOMAXPROCS.
	Concurrency int
}

// DecodeWithOptions is Decode with explicit options. If opts is nil the
// defaults are used.
func DecodeWithOptions(r io.Reader, opts *DecoderOptions) (*image.NRGBA, error) {
	workers := 0
	if opts != nil {
		if opts.Concurrency < 0 {
			return nil, fmt.Errorf("rpeg: invalid Concurrency %d (must be >= 0)", opts.Concurrency)
		}
		workers = opts.Concurrency
	}
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("rpeg: reading data: %w", err)
	}
	return decodeBytes(data, workers)
}
