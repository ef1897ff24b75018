package lossy

import (
	"github.com/deepteams/rpeg/internal/dsp"
	"github.com/deepteams/rpeg/internal/raster"
)

// Plane is a row-major grid of YPbPr pixels.
type Plane struct {
	Width  int
	Height int
	Pix    []dsp.YPbPr
}

// NewPlane returns a zeroed plane.
func NewPlane(width, height int) *Plane {
	return &Plane{Width: width, Height: height, Pix: make([]dsp.YPbPr, width*height)}
}

// PlaneFromGrid converts every pixel of g to YPbPr.
func PlaneFromGrid(g *raster.Grid) *Plane {
	p := NewPlane(g.Width, g.Height)
	for i, px := range g.Pix {
		p.Pix[i] = dsp.PixelToYPbPr(px.R, px.G, px.B)
	}
	return p
}

// Grid converts the plane back to 8-bit RGB, clamping each channel.
func (p *Plane) Grid() *raster.Grid {
	g := raster.NewGrid(p.Width, p.Height)
	for i, c := range p.Pix {
		r, gr, b := dsp.YPbPrToPixel(c)
		g.Pix[i] = raster.Pixel{R: r, G: gr, B: b}
	}
	return g
}

// BlocksWide returns the number of block columns.
func (p *Plane) BlocksWide() int { return p.Width / dsp.BlockSize }

// BlocksHigh returns the number of block rows.
func (p *Plane) BlocksHigh() int { return p.Height / dsp.BlockSize }

// Block gathers the block at block column bx, block row by.
func (p *Plane) Block(bx, by int) Block {
	var b Block
	x0, y0 := bx*dsp.BlockSize, by*dsp.BlockSize
	for i, off := range dsp.BlockScan {
		b[i] = p.Pix[(y0+off[1])*p.Width+x0+off[0]]
	}
	return b
}

// SetBlock scatters b to block column bx, block row by.
func (p *Plane) SetBlock(bx, by int, b Block) {
	x0, y0 := bx*dsp.BlockSize, by*dsp.BlockSize
	for i, off := range dsp.BlockScan {
		p.Pix[(y0+off[1])*p.Width+x0+off[0]] = b[i]
	}
}
