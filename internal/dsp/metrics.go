package dsp

import "math"

// PerfectPSNR is reported when two images are identical.
const PerfectPSNR = 99.0

// PSNRFromSSE computes the PSNR in dB of count 8-bit samples with the given
// sum of squared errors.
func PSNRFromSSE(sse uint64, count int) float64 {
	if sse == 0 || count == 0 {
		return PerfectPSNR
	}
	mse := float64(sse) / float64(count)
	return 10.0 * math.Log10(ChannelMax*ChannelMax/mse)
}

// SSE computes the sum of squared errors between two equally sized sample
// slices. Extra samples in the longer slice are ignored.
func SSE(pix, ref []byte) uint64 {
	n := len(pix)
	if len(ref) < n {
		n = len(ref)
	}
	var sse uint64
	for i := 0; i < n; i++ {
		d := int(pix[i]) - int(ref[i])
		sse += uint64(d * d)
	}
	return sse
}

// MaxAbsDiff returns the largest per-sample absolute difference.
func MaxAbsDiff(pix, ref []byte) int {
	n := len(pix)
	if len(ref) < n {
		n = len(ref)
	}
	m := 0
	for i := 0; i < n; i++ {
		d := int(pix[i]) - int(ref[i])
		if d < 0 {
			d = -d
		}
		if d > m {
			m = d
		}
	}
	return m
}
