package tensor

import "math"

// BF16 is a 16-bit brain floating-point value stored as raw bits.
// It keeps the float32 exponent range and truncates the mantissa to 7 bits.
type BF16 uint16

// BF16FromFloat32 converts f to bfloat16 with round-to-nearest-even.
// NaN payloads are quieted so that rounding can never produce an infinity.
func BF16FromFloat32(f float32) BF16 {
	bits := math.Float32bits(f)
	if f != f {
		return BF16(bits>>16 | 0x0040)
	}
	rounding := uint32(0x7FFF) + (bits>>16)&1
	return BF16((bits + rounding) >> 16)
}

// BF16FromBits returns the bfloat16 with the given bit pattern.
func BF16FromBits(bits uint16) BF16 {
	return BF16(bits)
}

// Float32 widens b to float32. The conversion is exact.
func (b BF16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Bits returns the raw bit pattern.
func (b BF16) Bits() uint16 {
	return uint16(b)
}
