// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package u192 implements a minimal little-endian 3-limb 192-bit unsigned
// integer. Only wrapping addition and wrapping multiplication are provided:
// the two operations the FLD mixer needs. A general-purpose big-integer type
// would compute a full 384-bit product and throw half of it away; U192 only
// ever produces the low 192 bits.
package u192

import (
	"encoding/binary"
	"math/bits"
)

// U192 is a little-endian 3-limb (192-bit) unsigned integer: U192[0] is the
// least significant limb, U192[2] the most significant.
type U192 [3]uint64

// Zero is the additive identity.
var Zero = U192{0, 0, 0}

// FromLimbs builds a U192 from its little-endian limbs.
func FromLimbs(lo, mid, hi uint64) U192 {
	return U192{lo, mid, hi}
}

// FromBytes decodes 24 little-endian bytes into a U192. Panics if b is
// shorter than 24 bytes.
func FromBytes(b []byte) U192 {
	_ = b[23]
	return U192{
		binary.LittleEndian.Uint64(b[0:8]),
		binary.LittleEndian.Uint64(b[8:16]),
		binary.LittleEndian.Uint64(b[16:24]),
	}
}

// Bytes encodes u as 24 little-endian bytes.
func (u U192) Bytes() [24]byte {
	var out [24]byte
	binary.LittleEndian.PutUint64(out[0:8], u[0])
	binary.LittleEndian.PutUint64(out[8:16], u[1])
	binary.LittleEndian.PutUint64(out[16:24], u[2])
	return out
}

// AppendBytes appends u's 24-byte little-endian encoding to dst.
func (u U192) AppendBytes(dst []byte) []byte {
	b := u.Bytes()
	return append(dst, b[:]...)
}

// Add returns (a + b) mod 2^192.
func Add(a, b U192) U192 {
	var out U192
	var carry uint64
	out[0], carry = bits.Add64(a[0], b[0], 0)
	out[1], carry = bits.Add64(a[1], b[1], carry)
	out[2], _ = bits.Add64(a[2], b[2], carry)
	return out
}

// Mul returns (a * b) mod 2^192, i.e. the low 192 bits of the full 384-bit
// product. Limbs beyond index 2 of the conceptual product are discarded as
// they're never needed by the mixer.
func Mul(a, b U192) U192 {
	var out U192

	hi0, lo0 := bits.Mul64(a[0], b[0])
	out[0] = lo0

	// limb 1: a0*b1 + a1*b0 + hi0
	hi1, lo1 := bits.Mul64(a[0], b[1])
	hi2, lo2 := bits.Mul64(a[1], b[0])
	sum1, c1 := bits.Add64(lo1, lo2, 0)
	sum1, c2 := bits.Add64(sum1, hi0, 0)
	out[1] = sum1
	carryInto2 := hi1 + hi2 + c1 + c2

	// limb 2: a0*b2 + a1*b1 + a2*b0 + carryInto2 (only the low word of each
	// partial product matters: anything that lands in the high word only
	// ever contributes to limb 3 and beyond, which we discard).
	_, lo3 := bits.Mul64(a[0], b[2])
	_, lo4 := bits.Mul64(a[1], b[1])
	_, lo5 := bits.Mul64(a[2], b[0])
	out[2] = lo3 + lo4 + lo5 + carryInto2

	return out
}

// Equal reports whether a and b hold the same 192-bit value.
func Equal(a, b U192) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2]
}

// IsZero reports whether u is the additive identity.
func (u U192) IsZero() bool {
	return u[0] == 0 && u[1] == 0 && u[2] == 0
}
