package dsp

// Coeffs holds the four transform coefficients of a block.
//
//	A: average brightness
//	B: bottom rows brighter than top
//	C: right column brighter than left
//	D: one diagonal brighter than the other
type Coeffs struct {
	A, B, C, D float32
}

// ForwardDCT converts four luma samples in BlockScan order into coefficients.
// The sums are evaluated from v[3] down to v[0]; keep that order.
func ForwardDCT(v [BlockPixels]float32) Coeffs {
	return Coeffs{
		A: (v[3] + v[2] + v[1] + v[0]) / 4,
		B: (v[3] + v[2] - v[1] - v[0]) / 4,
		C: (v[3] - v[2] + v[1] - v[0]) / 4,
		D: (v[3] - v[2] - v[1] + v[0]) / 4,
	}
}

// InverseDCT reconstructs four luma samples in BlockScan order.
func InverseDCT(c Coeffs) [BlockPixels]float32 {
	return [BlockPixels]float32{
		c.A - c.B - c.C + c.D,
		c.A - c.B + c.C - c.D,
		c.A + c.B - c.C - c.D,
		c.A + c.B + c.C + c.D,
	}
}

// AverageChroma returns the mean Pb and Pr of a block.
func AverageChroma(px [BlockPixels]YPbPr) (pb, pr float32) {
	for _, p := range px {
		pb += p.Pb
		pr += p.Pr
	}
	return pb / BlockPixels, pr / BlockPixels
}
