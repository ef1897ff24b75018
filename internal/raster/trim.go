package raster

// Trim returns the largest even-by-even top-left sub-grid of g: an odd width
// loses its last column and an odd height its last row. The two rules are
// independent, so a single-row or single-column grid trims to zero pixels.
// The result never aliases g.
func Trim(g *Grid) *Grid {
	w, h := g.Width&^1, g.Height&^1
	out := NewGrid(w, h)
	for y := 0; y < h; y++ {
		copy(out.Pix[y*w:(y+1)*w], g.Pix[y*g.Width:y*g.Width+w])
	}
	return out
}

// Even reports whether both dimensions of g are even.
func (g *Grid) Even() bool {
	return g.Width%2 == 0 && g.Height%2 == 0
}
