package dsp

import "math"

// ChromaLevels is the number of chroma quantization levels (4 bits).
const ChromaLevels = 16

// chromaTable is denser near zero, where most natural-image chroma lives.
var chromaTable = [ChromaLevels]float32{
	-0.35, -0.20, -0.15, -0.10, -0.077, -0.055, -0.033, -0.011,
	0.011, 0.033, 0.055, 0.077, 0.10, 0.15, 0.20, 0.35,
}

// IndexOfChroma returns the index of the table entry nearest to x, after
// clamping x to [-0.5,0.5]. Ties resolve to the lower index.
func IndexOfChroma(x float32) uint8 {
	if math.IsNaN(float64(x)) {
		x = 0
	}
	x = clampf(x, -0.5, 0.5)
	best := 0
	bestDist := absf(x - chromaTable[0])
	for i := 1; i < ChromaLevels; i++ {
		if d := absf(x - chromaTable[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

// ChromaOfIndex returns the chroma value of a 4-bit index. Higher bits are
// ignored.
func ChromaOfIndex(i uint8) float32 {
	return chromaTable[i&(ChromaLevels-1)]
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
