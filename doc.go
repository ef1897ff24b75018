// Package rpeg provides a pure Go encoder and decoder for the rpeg lossy
// image format.
//
// rpeg splits an image into 2x2 blocks and stores each block in a single
// 32-bit word: four quantized luma coefficients from a 2x2 cosine transform
// and one shared pair of quantized chroma values. Every image therefore costs
// exactly one byte per pixel plus a short text header, independent of content.
// There is no entropy coding; files can optionally be wrapped in a zstd frame.
//
// Odd widths and heights are trimmed to the next lower even number before
// encoding, so a decoded image may be one row or column smaller than its
// source. Alpha is ignored.
//
// Basic usage for decoding:
//
//	img, err := rpeg.Decode(reader)
//
// Basic usage for encoding:
//
//	err := rpeg.Encode(writer, img, nil)
package rpeg
