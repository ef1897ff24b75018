package lossy

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/deepteams/rpeg/internal/dsp"
)

// Errors returned by the block coder.
var (
	ErrDimensions = errors.New("lossy: dimensions must be even and non-negative")
	ErrWordCount  = errors.New("lossy: word count does not match dimensions")
)

// NumWorkers resolves a requested worker count against the number of block
// rows. Values <= 0 select GOMAXPROCS.
func NumWorkers(requested, rows int) int {
	n := requested
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > rows {
		n = rows
	}
	if n < 1 {
		n = 1
	}
	return n
}

// forEachRow runs fn for every block row, at most workers rows at a time,
// and returns the first error. fn must only touch state owned by its row.
func forEachRow(rows, workers int, fn func(by int) error) error {
	workers = NumWorkers(workers, rows)
	if workers == 1 {
		for by := 0; by < rows; by++ {
			if err := fn(by); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for by := 0; by < rows; by++ {
		g.Go(func() error { return fn(by) })
	}
	return g.Wait()
}

// EncodePlane codes every block of p and returns the words in row-major
// block order. Blocks are independent, so rows are coded concurrently on up
// to workers goroutines (<= 0 means GOMAXPROCS); the output does not depend
// on the worker count.
func EncodePlane(p *Plane, workers int) ([]uint32, error) {
	if err := checkDimensions(p.Width, p.Height); err != nil {
		return nil, err
	}
	words := make([]uint32, BlockCount(p.Width, p.Height))
	if err := EncodePlaneTo(words, p, workers); err != nil {
		return nil, err
	}
	return words, nil
}

// EncodePlaneTo is EncodePlane writing into words, which must hold exactly
// BlockCount(p.Width, p.Height) entries.
func EncodePlaneTo(words []uint32, p *Plane, workers int) error {
	if err := checkDimensions(p.Width, p.Height); err != nil {
		return err
	}
	bw, bh := p.BlocksWide(), p.BlocksHigh()
	if len(words) != bw*bh {
		return fmt.Errorf("%w: got %d, want %d for %dx%d", ErrWordCount, len(words), bw*bh, p.Width, p.Height)
	}
	return forEachRow(bh, workers, func(by int) error {
		row := words[by*bw : (by+1)*bw]
		for bx := range row {
			w, err := PackWord(EncodeBlock(p.Block(bx, by)))
			if err != nil {
				return fmt.Errorf("lossy: block (%d,%d): %w", bx, by, err)
			}
			row[bx] = w
		}
		return nil
	})
}

func checkDimensions(width, height int) error {
	if width < 0 || height < 0 || width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	return nil
}

// BlockCount returns the number of words needed for a width x height image.
func BlockCount(width, height int) int {
	return (width / dsp.BlockSize) * (height / dsp.BlockSize)
}
