package lossy

import "github.com/deepteams/rpeg/internal/dsp"

// Block is a 2x2 neighbourhood in dsp.BlockScan order.
type Block [dsp.BlockPixels]dsp.YPbPr

// EncodeBlock transforms and quantizes one block. Luma goes through the 2x2
// transform; chroma is averaged over the block and mapped to table indices.
func EncodeBlock(b Block) CoefficientSet {
	var y [dsp.BlockPixels]float32
	for i, p := range b {
		y[i] = p.Y
	}
	c := dsp.ForwardDCT(y)
	pb, pr := dsp.AverageChroma(b)
	return CoefficientSet{
		A:  uint16(dsp.QuantizeA(c.A)),
		B:  int8(dsp.QuantizeCoeff(c.B)),
		C:  int8(dsp.QuantizeCoeff(c.C)),
		D:  int8(dsp.QuantizeCoeff(c.D)),
		Pb: dsp.IndexOfChroma(pb),
		Pr: dsp.IndexOfChroma(pr),
	}
}

// DecodeBlock reconstructs a block. All four pixels share one chroma pair.
func DecodeBlock(cs CoefficientSet) Block {
	y := dsp.InverseDCT(dsp.Coeffs{
		A: dsp.DequantizeA(uint64(cs.A)),
		B: dsp.DequantizeCoeff(int64(cs.B)),
		C: dsp.DequantizeCoeff(int64(cs.C)),
		D: dsp.DequantizeCoeff(int64(cs.D)),
	})
	pb := dsp.ChromaOfIndex(cs.Pb)
	pr := dsp.ChromaOfIndex(cs.Pr)
	var b Block
	for i := range b {
		b[i] = dsp.YPbPr{Y: y[i], Pb: pb, Pr: pr}
	}
	return b
}
