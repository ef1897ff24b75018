package rpeg

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/deepteams/rpeg/internal/container"
	"github.com/deepteams/rpeg/internal/lossy"
)

func init() {
	image.RegisterFormat("rpeg", container.Magic, Decode, DecodeConfig)
	// zstd framed files.
	image.RegisterFormat("rpeg", "\x28\xb5\x2f\xfd", Decode, DecodeConfig)
}

// Errors returned by the decoder. Returned errors wrap these, so test with
// errors.Is.
var (
	ErrInvalidHeader = container.ErrInvalidHeader
	ErrTruncated     = container.ErrTruncated
	ErrTrailingData  = container.ErrTrailingData
	ErrInvalidImage  = container.ErrInvalidImage
	ErrTooLarge      = container.ErrTooLarge
)

// Features describes an rpeg file's properties.
type Features struct {
	Width       int
	Height      int
	Blocks      int         // number of coded 2x2 blocks
	Compression Compression // outer framing
	PayloadSize int         // bytes of word data, before any compression
	FileSize    int         // bytes read from the input
}

// Compressed reports whether the file was zstd framed.
func (f *Features) Compressed() bool {
	return f.Compression != CompressionNone
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of
// the repeated doublings that io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads an rpeg image from r. The returned image is an opaque
// *image.NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("rpeg: reading data: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes a complete rpeg file held in memory.
func DecodeBytes(data []byte) (*image.NRGBA, error) {
	return decodeBytes(data, 0)
}

func decodeBytes(data []byte, workers int) (*image.NRGBA, error) {
	f, err := container.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rpeg: parsing container: %w", err)
	}
	p, err := lossy.DecodePlane(f.Words, f.Width, f.Height, workers)
	if err != nil {
		return nil, fmt.Errorf("rpeg: decoding blocks: %w", err)
	}
	return p.Grid().NRGBA(), nil
}

// DecodeConfig returns the color model and dimensions of an rpeg image
// without decoding the block data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("rpeg: reading data: %w", err)
	}
	h, _, err := container.ParseConfig(data)
	if err != nil {
		return image.Config{}, fmt.Errorf("rpeg: parsing container: %w", err)
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.Width,
		Height:     h.Height,
	}, nil
}

// GetFeatures reads rpeg features without decoding pixel data. Unlike
// DecodeConfig it validates that the word stream has the right length.
func GetFeatures(r io.Reader) (*Features, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("rpeg: reading data: %w", err)
	}
	f, err := container.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rpeg: parsing container: %w", err)
	}
	return &Features{
		Width:       f.Width,
		Height:      f.Height,
		Blocks:      f.Blocks(),
		Compression: f.Compression,
		PayloadSize: f.PayloadSize(),
		FileSize:    len(data),
	}, nil
}
