package lossy

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/deepteams/rpeg/internal/bitpack"
	"github.com/deepteams/rpeg/internal/dsp"
	"github.com/deepteams/rpeg/internal/raster"
)

func TestFieldsTileWord(t *testing.T) {
	// Each set fills exactly one field with ones.
	fields := []CoefficientSet{
		{A: 511}, {B: -1}, {C: -1}, {D: -1}, {Pb: 15}, {Pr: 15},
	}
	var seen uint32
	for _, cs := range fields {
		w, err := PackWord(cs)
		if err != nil {
			t.Fatalf("PackWord(%+v): %v", cs, err)
		}
		if w == 0 || seen&w != 0 {
			t.Fatalf("field of %+v is empty or overlaps: %#08x", cs, w)
		}
		seen |= w
	}
	if seen != 0xffffffff {
		t.Fatalf("fields cover %#08x", seen)
	}
}

func TestPackWordLayout(t *testing.T) {
	tests := []struct {
		name string
		cs   CoefficientSet
		want uint32
	}{
		{"zero", CoefficientSet{}, 0},
		{"max a", CoefficientSet{A: 511}, 0xff800000},
		{"pr only", CoefficientSet{Pr: 15}, 0x0000000f},
		{"negative d", CoefficientSet{D: -1}, 0x00001f00},
		{"mixed", CoefficientSet{A: 511, B: 15, C: -15, D: 0, Pb: 15, Pr: 0}, 0xffbe20f0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PackWord(tt.cs)
			if err != nil {
				t.Fatalf("PackWord: %v", err)
			}
			if got != tt.want {
				t.Fatalf("PackWord = %#08x, want %#08x", got, tt.want)
			}
			if back := UnpackWord(got); back != tt.cs {
				t.Fatalf("UnpackWord = %+v, want %+v", back, tt.cs)
			}
		})
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		cs := CoefficientSet{
			A:  uint16(rng.Intn(512)),
			B:  int8(rng.Intn(31) - 15),
			C:  int8(rng.Intn(31) - 15),
			D:  int8(rng.Intn(31) - 15),
			Pb: uint8(rng.Intn(16)),
			Pr: uint8(rng.Intn(16)),
		}
		w, err := PackWord(cs)
		if err != nil {
			t.Fatalf("PackWord(%+v): %v", cs, err)
		}
		if got := UnpackWord(w); got != cs {
			t.Fatalf("round trip %+v -> %#08x -> %+v", cs, w, got)
		}
	}
}

func TestPackWordRange(t *testing.T) {
	tests := []struct {
		name  string
		cs    CoefficientSet
		field string
	}{
		{"a", CoefficientSet{A: 512}, "field a (9@23)"},
		{"pb", CoefficientSet{Pb: 16}, "field pb (4@4)"},
		{"pr", CoefficientSet{Pr: 200}, "field pr (4@0)"},
		{"b", CoefficientSet{B: 40}, "field b (5@18)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PackWord(tt.cs)
			if !errors.Is(err, bitpack.ErrRange) {
				t.Fatalf("err = %v, want ErrRange", err)
			}
			var re *bitpack.RangeError
			if !errors.As(err, &re) {
				t.Fatalf("err = %v, want *RangeError", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("err = %q, want mention of %q", err, tt.field)
			}
		})
	}
}

func TestForEachRow(t *testing.T) {
	const rows = 37
	for _, workers := range []int{1, 4, 64} {
		seen := make([]int, rows)
		if err := forEachRow(rows, workers, func(by int) error {
			seen[by]++
			return nil
		}); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for by, n := range seen {
			if n != 1 {
				t.Fatalf("workers=%d: row %d ran %d times", workers, by, n)
			}
		}

		errRow := errors.New("row 20")
		err := forEachRow(rows, workers, func(by int) error {
			if by == 20 {
				return errRow
			}
			return nil
		})
		if !errors.Is(err, errRow) {
			t.Fatalf("workers=%d: err = %v, want %v", workers, err, errRow)
		}
	}
}

func TestEncodeBlockClampsExtremes(t *testing.T) {
	// Values far outside the nominal ranges still produce a packable set.
	b := Block{
		{Y: -4, Pb: 3, Pr: -3},
		{Y: 9, Pb: -3, Pr: 3},
		{Y: 9, Pb: 3, Pr: 3},
		{Y: -4, Pb: 3, Pr: 3},
	}
	cs := EncodeBlock(b)
	if _, err := PackWord(cs); err != nil {
		t.Fatalf("PackWord(%+v): %v", cs, err)
	}
}

func TestDecodeBlockSharesChroma(t *testing.T) {
	b := DecodeBlock(CoefficientSet{A: 300, B: 4, C: -2, D: 1, Pb: 3, Pr: 12})
	for i := 1; i < len(b); i++ {
		if b[i].Pb != b[0].Pb || b[i].Pr != b[0].Pr {
			t.Fatalf("pixel %d chroma = (%v,%v), want (%v,%v)", i, b[i].Pb, b[i].Pr, b[0].Pb, b[0].Pr)
		}
	}
	if b[0].Pb != dsp.ChromaOfIndex(3) || b[0].Pr != dsp.ChromaOfIndex(12) {
		t.Fatalf("chroma = (%v,%v)", b[0].Pb, b[0].Pr)
	}
}

func gridOf(w, h int, px ...raster.Pixel) *raster.Grid {
	g := raster.NewGrid(w, h)
	copy(g.Pix, px)
	return g
}

func roundTrip(t *testing.T, g *raster.Grid, workers int) *raster.Grid {
	t.Helper()
	words, err := EncodePlane(PlaneFromGrid(g), workers)
	if err != nil {
		t.Fatalf("EncodePlane: %v", err)
	}
	p, err := DecodePlane(words, g.Width, g.Height, workers)
	if err != nil {
		t.Fatalf("DecodePlane: %v", err)
	}
	return p.Grid()
}

func luma(p raster.Pixel) float32 {
	return dsp.PixelToYPbPr(p.R, p.G, p.B).Y
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// A block of saturated primaries averages its chroma to near zero, so only
// luma survives per pixel. White carries no chroma and comes back close.
func TestSingleBlockPrimaries(t *testing.T) {
	in := gridOf(2, 2,
		raster.Pixel{R: 255}, raster.Pixel{G: 255},
		raster.Pixel{B: 255}, raster.Pixel{R: 255, G: 255, B: 255},
	)
	out := roundTrip(t, in, 1)
	if out.Width != 2 || out.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", out.Width, out.Height)
	}
	const lumaTol = 8.0 / 255
	for i := range in.Pix {
		d := luma(in.Pix[i]) - luma(out.Pix[i])
		if d < -lumaTol || d > lumaTol {
			t.Errorf("pixel %d: luma error %.4f exceeds %.4f (in %+v out %+v)", i, d, lumaTol, in.Pix[i], out.Pix[i])
		}
	}
	white := out.Pix[3]
	for _, c := range []uint8{white.R, white.G, white.B} {
		if absDiff(c, 255) > 8 {
			t.Errorf("white decoded as %+v", white)
		}
	}
	// The block's chroma averages to about zero, so saturated pixels decode
	// near grey at their own luma. A per-channel bound cannot hold here.
	for i, want := range []raster.Pixel{{R: 255}, {G: 255}, {B: 255}} {
		p := out.Pix[i]
		if absDiff(p.R, want.R)+absDiff(p.G, want.G)+absDiff(p.B, want.B) < 150 {
			t.Errorf("pixel %d decoded as %+v, want chroma averaged away from %+v", i, p, want)
		}
		if spread := max(p.R, p.G, p.B) - min(p.R, p.G, p.B); spread > 24 {
			t.Errorf("pixel %d decoded as %+v, want near grey", i, p)
		}
	}
}

func TestUniformBlocks(t *testing.T) {
	colors := []raster.Pixel{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
		{R: 128, G: 128, B: 128},
		{R: 200, G: 100, B: 50},
		{R: 30, G: 160, B: 90},
		{R: 10, G: 200, B: 240},
	}
	const channelTol = 20
	for _, c := range colors {
		out := roundTrip(t, gridOf(2, 2, c, c, c, c), 1)
		for i, p := range out.Pix {
			if absDiff(p.R, c.R) > channelTol || absDiff(p.G, c.G) > channelTol || absDiff(p.B, c.B) > channelTol {
				t.Errorf("color %+v pixel %d decoded as %+v", c, i, p)
			}
		}
	}
}

func TestBlockScanPlacement(t *testing.T) {
	// Dark top row, bright bottom row: B must come out positive and the
	// decoded bottom row must stay brighter.
	dark, bright := raster.Pixel{R: 40, G: 40, B: 40}, raster.Pixel{R: 200, G: 200, B: 200}
	in := gridOf(2, 2, dark, dark, bright, bright)
	cs := EncodeBlock(PlaneFromGrid(in).Block(0, 0))
	if cs.B <= 0 || cs.C != 0 {
		t.Fatalf("coefficients = %+v, want B > 0 and C == 0", cs)
	}
	out := roundTrip(t, in, 1)
	if luma(out.Pix[0]) >= luma(out.Pix[2]) || luma(out.Pix[1]) >= luma(out.Pix[3]) {
		t.Fatalf("vertical gradient lost: %+v", out.Pix)
	}
}

func randomGrid(rng *rand.Rand, w, h int) *raster.Grid {
	g := raster.NewGrid(w, h)
	for i := range g.Pix {
		g.Pix[i] = raster.Pixel{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
	}
	return g
}

func TestEncodePlaneWorkerIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	p := PlaneFromGrid(randomGrid(rng, 34, 26))
	ref, err := EncodePlane(p, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(ref) != BlockCount(34, 26) {
		t.Fatalf("len = %d, want %d", len(ref), BlockCount(34, 26))
	}
	for _, workers := range []int{0, 2, 3, 8, 64} {
		got, err := EncodePlane(p, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for i := range ref {
			if got[i] != ref[i] {
				t.Fatalf("workers=%d: word %d = %#08x, want %#08x", workers, i, got[i], ref[i])
			}
		}
		dec, err := DecodePlane(got, 34, 26, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		single, _ := DecodePlane(ref, 34, 26, 1)
		for i := range dec.Pix {
			if dec.Pix[i] != single.Pix[i] {
				t.Fatalf("workers=%d: pixel %d differs", workers, i)
			}
		}
	}
}

func TestEncodePlaneRowMajor(t *testing.T) {
	// Each block gets a distinct grey level; words must follow block order.
	g := raster.NewGrid(6, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			v := uint8(20 + 40*((y/2)*3+x/2))
			g.Set(x, y, raster.Pixel{R: v, G: v, B: v})
		}
	}
	words, err := EncodePlane(PlaneFromGrid(g), 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(words); i++ {
		if UnpackWord(words[i]).A <= UnpackWord(words[i-1]).A {
			t.Fatalf("word %d not brighter than word %d", i, i-1)
		}
	}
}

func TestPlaneErrors(t *testing.T) {
	if _, err := EncodePlane(NewPlane(3, 2), 1); !errors.Is(err, ErrDimensions) {
		t.Fatalf("odd width: err = %v", err)
	}
	if _, err := DecodePlane(nil, 2, 5, 1); !errors.Is(err, ErrDimensions) {
		t.Fatalf("odd height: err = %v", err)
	}
	if _, err := DecodePlane(make([]uint32, 3), 4, 2, 1); !errors.Is(err, ErrWordCount) {
		t.Fatalf("short: err = %v", err)
	}
	if _, err := DecodePlane(make([]uint32, 1), 0, 0, 1); !errors.Is(err, ErrWordCount) {
		t.Fatalf("extra: err = %v", err)
	}
}

func TestEmptyPlane(t *testing.T) {
	words, err := EncodePlane(NewPlane(0, 0), 0)
	if err != nil || len(words) != 0 {
		t.Fatalf("EncodePlane(0x0) = %v, %v", words, err)
	}
	p, err := DecodePlane(nil, 0, 0, 0)
	if err != nil || p.Width != 0 || p.Height != 0 {
		t.Fatalf("DecodePlane(0x0) = %+v, %v", p, err)
	}
	// Width without height still yields no blocks.
	p, err = DecodePlane(nil, 6, 0, 0)
	if err != nil || len(p.Pix) != 0 {
		t.Fatalf("DecodePlane(6x0) = %+v, %v", p, err)
	}
}

func TestNumWorkers(t *testing.T) {
	tests := []struct{ req, rows, want int }{
		{1, 10, 1},
		{4, 10, 4},
		{16, 3, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := NumWorkers(tt.req, tt.rows); got != tt.want {
			t.Errorf("NumWorkers(%d,%d) = %d, want %d", tt.req, tt.rows, got, tt.want)
		}
	}
	if got := NumWorkers(0, 1<<20); got < 1 {
		t.Errorf("NumWorkers(0) = %d", got)
	}
}

func BenchmarkEncodePlane(b *testing.B) {
	p := PlaneFromGrid(randomGrid(rand.New(rand.NewSource(1)), 512, 512))
	b.SetBytes(512 * 512 * 3)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := EncodePlane(p, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodePlane(b *testing.B) {
	p := PlaneFromGrid(randomGrid(rand.New(rand.NewSource(1)), 512, 512))
	words, _ := EncodePlane(p, 0)
	b.SetBytes(512 * 512 * 3)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := DecodePlane(words, 512, 512, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func TestEncodePlaneTo(t *testing.T) {
	p := PlaneFromGrid(randomGrid(rand.New(rand.NewSource(2)), 8, 6))
	want, err := EncodePlane(p, 1)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]uint32, len(want))
	if err := EncodePlaneTo(got, p, 3); err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word %d = %#08x, want %#08x", i, got[i], want[i])
		}
	}
	if err := EncodePlaneTo(make([]uint32, len(want)+1), p, 1); !errors.Is(err, ErrWordCount) {
		t.Fatalf("wrong length: err = %v", err)
	}
}
