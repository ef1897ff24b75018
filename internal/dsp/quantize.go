package dsp

import "math"

// Fixed-point quantization of the block coefficients.
const (
	// LumaScale maps A in [0,1] onto the 9-bit range [0,511].
	LumaScale = 511
	// CoeffScale maps B, C and D onto signed steps of 1/50.
	CoeffScale = 50
	// CoeffLimit bounds |B|, |C| and |D| before scaling.
	CoeffLimit = 0.3
	// CoeffMax bounds the quantized |B|, |C| and |D|; it fits 5 signed bits.
	CoeffMax = 15
)

// round rounds half away from zero.
func round(v float32) float32 {
	return float32(math.Round(float64(v)))
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// QuantizeA returns round(a*511) clamped to [0,511].
func QuantizeA(a float32) uint64 {
	q := round(a * LumaScale)
	if !(q > 0) {
		return 0
	}
	if q > LumaScale {
		return LumaScale
	}
	return uint64(q)
}

// DequantizeA is the inverse of QuantizeA.
func DequantizeA(q uint64) float32 {
	return float32(q) / LumaScale
}

// QuantizeCoeff clamps x to [-0.3,0.3], scales by 50, rounds, and clamps the
// result to [-15,15].
func QuantizeCoeff(x float32) int64 {
	if math.IsNaN(float64(x)) {
		return 0
	}
	q := int64(round(clampf(x, -CoeffLimit, CoeffLimit) * CoeffScale))
	if q < -CoeffMax {
		return -CoeffMax
	}
	if q > CoeffMax {
		return CoeffMax
	}
	return q
}

// DequantizeCoeff is the inverse of QuantizeCoeff.
func DequantizeCoeff(q int64) float32 {
	return float32(q) / CoeffScale
}
