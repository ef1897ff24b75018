// Package raster holds 8-bit RGB pixel grids and the dimension trimmer that
// prepares them for 2x2 block coding.
package raster

import (
	"image"
	"image/color"

	"github.com/deepteams/rpeg/internal/dsp"
)

// Pixel is one 8-bit RGB sample.
type Pixel struct {
	R, G, B uint8
}

// Grid is a row-major array of pixels.
type Grid struct {
	Width  int
	Height int
	Pix    []Pixel
}

// NewGrid returns a zeroed width x height grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}
}

// At returns the pixel at column x, row y.
func (g *Grid) At(x, y int) Pixel {
	return g.Pix[y*g.Width+x]
}

// Set stores p at column x, row y.
func (g *Grid) Set(x, y int, p Pixel) {
	g.Pix[y*g.Width+x] = p
}

// FromImage copies the RGB channels of img into a new grid anchored at (0,0).
// Alpha is discarded; non-premultiplied color is used so that translucent
// pixels keep their hue.
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	g := NewGrid(w, h)

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			off := (y+b.Min.Y-src.Rect.Min.Y)*src.Stride + (b.Min.X-src.Rect.Min.X)*4
			row := g.Pix[y*w : (y+1)*w]
			for x := range row {
				row[x] = Pixel{src.Pix[off], src.Pix[off+1], src.Pix[off+2]}
				off += 4
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			off := (y+b.Min.Y-src.Rect.Min.Y)*src.Stride + (b.Min.X-src.Rect.Min.X)*4
			row := g.Pix[y*w : (y+1)*w]
			for x := range row {
				a := src.Pix[off+3]
				switch a {
				case 255:
					row[x] = Pixel{src.Pix[off], src.Pix[off+1], src.Pix[off+2]}
				case 0:
					// fully transparent: leave black
				default:
					a16 := uint16(a)
					row[x] = Pixel{
						uint8(uint16(src.Pix[off]) * 255 / a16),
						uint8(uint16(src.Pix[off+1]) * 255 / a16),
						uint8(uint16(src.Pix[off+2]) * 255 / a16),
					}
				}
				off += 4
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				g.Pix[y*w+x] = Pixel{c.R, c.G, c.B}
			}
		}
	}
	return g
}

// NRGBA returns an opaque image of the grid.
func (g *Grid) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		dst := img.Pix[y*img.Stride : y*img.Stride+g.Width*4]
		for x, p := range g.Pix[y*g.Width : (y+1)*g.Width] {
			dst[x*4] = p.R
			dst[x*4+1] = p.G
			dst[x*4+2] = p.B
			dst[x*4+3] = 255
		}
	}
	return img
}

// rgbRegion packs the top-left w x h region as R,G,B bytes.
func (g *Grid) rgbRegion(w, h int) []byte {
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		for _, p := range g.Pix[y*g.Width : y*g.Width+w] {
			out = append(out, p.R, p.G, p.B)
		}
	}
	return out
}

// PSNR compares the overlapping top-left region of a and b over all three
// channels.
func PSNR(a, b *Grid) float64 {
	psnr, _ := Compare(a, b)
	return psnr
}

// Compare returns the PSNR and the largest per-channel difference over the
// overlapping top-left region of a and b.
func Compare(a, b *Grid) (psnr float64, maxDiff int) {
	w, h := min(a.Width, b.Width), min(a.Height, b.Height)
	pa, pb := a.rgbRegion(w, h), b.rgbRegion(w, h)
	return dsp.PSNRFromSSE(dsp.SSE(pa, pb), len(pa)), dsp.MaxAbsDiff(pa, pb)
}
