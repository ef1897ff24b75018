// Package bitpack reads and writes bit fields inside a 64-bit word.
//
// A field is identified by its width and the position of its least
// significant bit. Unsigned fields are stored as-is; signed fields are stored
// in two's complement for the field width. All functions are pure: setters
// return a new word and never modify their input.
package bitpack

import (
	"errors"
	"fmt"
)

// WordBits is the bit length of the words handled by this package.
const WordBits = 64

// ErrRange is wrapped by every *RangeError.
var ErrRange = errors.New("bitpack: value does not fit field")

// RangeError reports a value that does not fit the target field width.
type RangeError struct {
	Width  uint
	LSB    uint
	Signed bool
	Value  uint64 // value as passed to SetUnsigned
	SValue int64  // original value when Signed is set
}

func (e *RangeError) Error() string {
	if e.Signed {
		return fmt.Sprintf("bitpack: signed value %d does not fit %d-bit field at bit %d", e.SValue, e.Width, e.LSB)
	}
	return fmt.Sprintf("bitpack: value %d does not fit %d-bit field at bit %d", e.Value, e.Width, e.LSB)
}

func (e *RangeError) Unwrap() error { return ErrRange }

// mask returns width one-bits shifted to lsb. A width of 64 yields all ones
// because 1<<64 is 0 for uint64.
func mask(width, lsb uint) uint64 {
	return ((uint64(1) << width) - 1) << lsb
}

// FitsUnsigned reports whether v can be represented in width unsigned bits.
func FitsUnsigned(v uint64, width uint) bool {
	if width >= WordBits {
		return true
	}
	return v <= (uint64(1)<<width)-1
}

// FitsSigned converts v to its width-bit two's complement form and checks it
// with FitsUnsigned.
func FitsSigned(v int64, width uint) bool {
	return FitsUnsigned(SignedToUnsigned(v, width), width)
}

// SignedToUnsigned returns v unchanged when it is non-negative and v+2^width
// otherwise. The caller is responsible for v being representable in width
// bits; see FitsSigned.
func SignedToUnsigned(v int64, width uint) uint64 {
	if v >= 0 {
		return uint64(v)
	}
	// Modular arithmetic: for width 64 the added term is 0.
	return uint64(v) + uint64(1)<<width
}

// UnsignedToSigned interprets the low width bits of v as a two's complement
// number. Values below 2^(width-1) are returned unchanged. A zero-width field
// can only hold 0.
func UnsignedToSigned(v uint64, width uint) int64 {
	if width == 0 {
		return 0
	}
	if width >= WordBits || v < uint64(1)<<(width-1) {
		return int64(v)
	}
	return int64(v - uint64(1)<<width)
}

// GetUnsigned returns the width-bit field of word starting at lsb, shifted
// down to bit 0.
func GetUnsigned(word uint64, width, lsb uint) uint64 {
	return (word & mask(width, lsb)) >> lsb
}

// GetSigned returns the width-bit field of word starting at lsb as a signed
// value.
func GetSigned(word uint64, width, lsb uint) int64 {
	return UnsignedToSigned(GetUnsigned(word, width, lsb), width)
}

// SetUnsigned returns word with the width bits starting at lsb replaced by v.
// It returns a *RangeError when v does not fit in width unsigned bits. Bits
// outside the field are left untouched.
func SetUnsigned(word uint64, width, lsb uint, v uint64) (uint64, error) {
	if !FitsUnsigned(v, width) {
		return word, &RangeError{Width: width, LSB: lsb, Value: v}
	}
	return word&^mask(width, lsb) | v<<lsb, nil
}

// SetSigned stores v in two's complement form. The fit check is the one of
// SetUnsigned applied to the converted value.
func SetSigned(word uint64, width, lsb uint, v int64) (uint64, error) {
	u := SignedToUnsigned(v, width)
	out, err := SetUnsigned(word, width, lsb, u)
	if err != nil {
		return word, &RangeError{Width: width, LSB: lsb, Signed: true, Value: u, SValue: v}
	}
	return out, nil
}
