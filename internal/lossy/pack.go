package lossy

import "fmt"

// CoefficientSet is the exact content of one coded word.
type CoefficientSet struct {
	A       uint16 // average luma, 0..511
	B, C, D int8   // luma gradients, -15..15
	Pb, Pr  uint8  // chroma table indices, 0..15
}

// PackWord assembles the word for cs. It fails with a *bitpack.RangeError
// when a field does not fit; the encoder clamps every value beforehand, so
// that only happens for hand-built sets.
func PackWord(cs CoefficientSet) (uint32, error) {
	var word uint64
	var err error
	if word, err = fieldA.Set(word, uint64(cs.A)); err != nil {
		return 0, fmt.Errorf("lossy: field a (%v): %w", fieldA, err)
	}
	if word, err = fieldB.SetSigned(word, int64(cs.B)); err != nil {
		return 0, fmt.Errorf("lossy: field b (%v): %w", fieldB, err)
	}
	if word, err = fieldC.SetSigned(word, int64(cs.C)); err != nil {
		return 0, fmt.Errorf("lossy: field c (%v): %w", fieldC, err)
	}
	if word, err = fieldD.SetSigned(word, int64(cs.D)); err != nil {
		return 0, fmt.Errorf("lossy: field d (%v): %w", fieldD, err)
	}
	if word, err = fieldPb.Set(word, uint64(cs.Pb)); err != nil {
		return 0, fmt.Errorf("lossy: field pb (%v): %w", fieldPb, err)
	}
	if word, err = fieldPr.Set(word, uint64(cs.Pr)); err != nil {
		return 0, fmt.Errorf("lossy: field pr (%v): %w", fieldPr, err)
	}
	return uint32(word), nil
}

// UnpackWord splits a word into its fields.
func UnpackWord(w uint32) CoefficientSet {
	word := uint64(w)
	return CoefficientSet{
		A:  uint16(fieldA.Get(word)),
		B:  int8(fieldB.GetSigned(word)),
		C:  int8(fieldC.GetSigned(word)),
		D:  int8(fieldD.GetSigned(word)),
		Pb: uint8(fieldPb.Get(word)),
		Pr: uint8(fieldPr.Get(word)),
	}
}
