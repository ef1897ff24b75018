// Package dsp holds the per-pixel and per-block arithmetic of the codec:
// RGB <-> YPbPr conversion, the 2x2 luma transform, coefficient
// quantization and the chroma index table.
//
// All arithmetic is float32 and every function is pure. The evaluation order
// of the transforms is fixed so that encoders built on this package produce
// bit-identical words.
package dsp

// BlockSize is the edge length of a coding block in pixels.
const BlockSize = 2

// BlockPixels is the number of pixels in a block.
const BlockPixels = BlockSize * BlockSize

// BlockScan maps a pixel index inside a block to its (dx, dy) offset from the
// block's top-left corner. The order is top-left, top-right, bottom-left,
// bottom-right.
var BlockScan = [BlockPixels][2]int{
	{0, 0},
	{1, 0},
	{0, 1},
	{1, 1},
}
