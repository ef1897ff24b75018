package dsp

import "math"

// Analog component video (YPbPr) conversion on normalized [0,1] channels.
// Coefficients are the BT.601 luma weights.

// RGB -> YPbPr coefficients.
const (
	kRGBToY0 = 0.299
	kRGBToY1 = 0.587
	kRGBToY2 = 0.114

	kRGBToPb0 = -0.168736
	kRGBToPb1 = -0.331264
	kRGBToPb2 = 0.5

	kRGBToPr0 = 0.5
	kRGBToPr1 = -0.418688
	kRGBToPr2 = -0.081312
)

// YPbPr -> RGB coefficients.
const (
	kRPr = 1.402
	kGPb = 0.344136
	kGPr = 0.714136
	kBPb = 1.772
)

// ChannelMax is the largest 8-bit channel value.
const ChannelMax = 255

// YPbPr is one pixel in component video space. Y is nominally in [0,1],
// Pb and Pr in [-0.5,0.5]; values outside those ranges are carried as-is.
type YPbPr struct {
	Y, Pb, Pr float32
}

// Normalize maps an 8-bit channel to [0,1].
func Normalize(v uint8) float32 {
	return float32(v) / ChannelMax
}

// RGBToYPbPr converts normalized RGB to YPbPr. No clamping is performed.
//
// Each product is rounded by an explicit conversion, which keeps it out of a
// fused multiply-add on any GOARCH.
func RGBToYPbPr(r, g, b float32) YPbPr {
	return YPbPr{
		Y:  float32(kRGBToY0*r) + float32(kRGBToY1*g) + float32(kRGBToY2*b),
		Pb: float32(kRGBToPb0*r) + float32(kRGBToPb1*g) + float32(kRGBToPb2*b),
		Pr: float32(kRGBToPr0*r) + float32(kRGBToPr1*g) + float32(kRGBToPr2*b),
	}
}

// YPbPrToRGB converts back to normalized RGB. Results may fall outside [0,1];
// see ToChannel. Products are rounded as in RGBToYPbPr.
func YPbPrToRGB(c YPbPr) (r, g, b float32) {
	r = c.Y + float32(kRPr*c.Pr)
	g = c.Y - float32(kGPb*c.Pb) - float32(kGPr*c.Pr)
	b = c.Y + float32(kBPb*c.Pb)
	return r, g, b
}

// ToChannel scales a normalized value to 8 bits, clamping to [0,255] and
// rounding to nearest. NaN maps to 0.
func ToChannel(v float32) uint8 {
	s := float64(v) * ChannelMax
	if !(s > 0) {
		return 0
	}
	if s >= ChannelMax {
		return ChannelMax
	}
	return uint8(math.Round(s))
}

// PixelToYPbPr converts an 8-bit RGB pixel.
func PixelToYPbPr(r, g, b uint8) YPbPr {
	return RGBToYPbPr(Normalize(r), Normalize(g), Normalize(b))
}

// YPbPrToPixel converts to an 8-bit RGB pixel with explicit clamping.
func YPbPrToPixel(c YPbPr) (r, g, b uint8) {
	rf, gf, bf := YPbPrToRGB(c)
	return ToChannel(rf), ToChannel(gf), ToChannel(bf)
}
