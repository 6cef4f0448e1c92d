package value

import "math/big"

// Int128 is a signed 128-bit integer, stored as two's complement across a
// high and low 64-bit half. Go has no native int128; this mirrors the width
// the on-disk format reserves for the Number variant (16 bytes, matching the
// frame codec's 16-byte length fields) without pulling in an arbitrary
// precision type for the hot encode/decode path.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Int128FromInt64 widens a plain int64 into an Int128, sign-extending as
// needed.
func Int128FromInt64(n int64) Int128 {
	if n < 0 {
		return Int128{Hi: -1, Lo: uint64(n)}
	}
	return Int128{Hi: 0, Lo: uint64(n)}
}

// IsInt64 reports whether the value fits in a plain int64, and returns it if
// so.
func (v Int128) IsInt64() (int64, bool) {
	lo := int64(v.Lo)
	if v.Hi == 0 && lo >= 0 {
		return lo, true
	}
	if v.Hi == -1 && lo < 0 {
		return lo, true
	}
	return 0, false
}

// Bytes encodes the value as 16 big-endian two's-complement bytes.
func (v Int128) Bytes() [16]byte {
	var out [16]byte
	hi := uint64(v.Hi)
	for i := 0; i < 8; i++ {
		out[7-i] = byte(hi >> (8 * uint(i)))
	}
	for i := 0; i < 8; i++ {
		out[15-i] = byte(v.Lo >> (8 * uint(i)))
	}
	return out
}

// Int128FromBytes decodes 16 big-endian two's-complement bytes into an
// Int128.
func Int128FromBytes(b [16]byte) Int128 {
	var hi uint64
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(b[i])
	}
	var lo uint64
	for i := 8; i < 16; i++ {
		lo = lo<<8 | uint64(b[i])
	}
	return Int128{Hi: int64(hi), Lo: lo}
}

// BigInt converts the value to an arbitrary-precision integer, used when
// carrying it over JSON as a decimal string.
func (v Int128) BigInt() *big.Int {
	b := v.Bytes()
	n := new(big.Int).SetBytes(b[:])
	if v.Hi < 0 {
		// Two's complement negative: n currently holds the unsigned bit
		// pattern; subtract 2^128 to recover the signed value.
		mod := new(big.Int).Lsh(big.NewInt(1), 128)
		n.Sub(n, mod)
	}
	return n
}

// Int128FromBigInt converts an arbitrary-precision integer into an Int128,
// truncating to 128 bits of two's-complement range.
func Int128FromBigInt(n *big.Int) Int128 {
	mod := new(big.Int).Lsh(big.NewInt(1), 128)
	v := new(big.Int).Mod(n, mod)
	if v.Sign() < 0 {
		v.Add(v, mod)
	}
	var b [16]byte
	v.FillBytes(b[:])
	return Int128FromBytes(b)
}

// String renders the value in decimal, matching big.Int's formatting.
func (v Int128) String() string {
	return v.BigInt().String()
}
