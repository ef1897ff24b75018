// Package lossy implements the block coder: each 2x2 block of YPbPr pixels
// becomes one 32-bit word holding four quantized luma coefficients and two
// chroma indices, and each word decodes back to four pixels sharing one
// chroma pair.
package lossy

import "github.com/deepteams/rpeg/internal/bitpack"

// Word layout, most significant field first:
//
//	31      23 22   18 17   13 12    8 7    4 3    0
//	+---------+-------+-------+-------+------+------+
//	|    a    |   b   |   c   |   d   |  pb  |  pr  |
//	+---------+-------+-------+-------+------+------+
//
// a, pb and pr are unsigned; b, c and d are two's complement.
var (
	fieldA  = bitpack.Field{Width: 9, LSB: 23}
	fieldB  = bitpack.Field{Width: 5, LSB: 18}
	fieldC  = bitpack.Field{Width: 5, LSB: 13}
	fieldD  = bitpack.Field{Width: 5, LSB: 8}
	fieldPb = bitpack.Field{Width: 4, LSB: 4}
	fieldPr = bitpack.Field{Width: 4, LSB: 0}
)
