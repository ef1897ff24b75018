package bitpack

import "fmt"

// Field describes a contiguous run of bits inside a word.
type Field struct {
	Width uint // number of bits
	LSB   uint // position of the least significant bit
}

// Get returns the unsigned value of f in word.
func (f Field) Get(word uint64) uint64 {
	return GetUnsigned(word, f.Width, f.LSB)
}

// GetSigned returns the two's complement value of f in word.
func (f Field) GetSigned(word uint64) int64 {
	return GetSigned(word, f.Width, f.LSB)
}

// Set stores v in f. See SetUnsigned.
func (f Field) Set(word, v uint64) (uint64, error) {
	return SetUnsigned(word, f.Width, f.LSB, v)
}

// SetSigned stores v in f as two's complement. See SetSigned.
func (f Field) SetSigned(word uint64, v int64) (uint64, error) {
	return SetSigned(word, f.Width, f.LSB, v)
}

// String formats f as width@lsb.
func (f Field) String() string {
	return fmt.Sprintf("%d@%d", f.Width, f.LSB)
}
