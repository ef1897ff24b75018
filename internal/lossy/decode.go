package lossy

import "fmt"

// DecodePlane rebuilds a width x height plane from words in row-major block
// order. The dimensions must be even and len(words) must equal
// BlockCount(width, height).
func DecodePlane(words []uint32, width, height, workers int) (*Plane, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if n := BlockCount(width, height); len(words) != n {
		return nil, fmt.Errorf("%w: got %d, want %d for %dx%d", ErrWordCount, len(words), n, width, height)
	}
	p := NewPlane(width, height)
	bw := p.BlocksWide()
	err := forEachRow(p.BlocksHigh(), workers, func(by int) error {
		for bx, w := range words[by*bw : (by+1)*bw] {
			p.SetBlock(bx, by, DecodeBlock(UnpackWord(w)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
