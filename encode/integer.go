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

// Package encode holds the byte-shaping rules shared by the fast and crypto
// dispatch layers: canonical integer encoding and trailing-zero stripping.
// These rules exist independently of any hasher or address implementation so
// both variants apply them identically.
package encode

// Uint64LE returns the little-endian bytes of v.
func Uint64LE(v uint64) [8]byte {
	var out [8]byte
	for i := range out {
		out[i] = byte(v >> (8 * i))
	}
	return out
}

// StripTrailingZeros drops trailing (high-order, since the slice is little
// endian) zero bytes, returning a sub-slice of b. A magnitude of zero strips
// to an empty slice. This is what makes u8 -> u16 -> ... -> u128 widening
// digest-preserving: the stripped bytes only depend on the value, never on
// the width it happened to be stored in.
func StripTrailingZeros(b []byte) []byte {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return b[:n]
}

// UnsignedMagnitude encodes an unsigned value as its canonical stripped
// little-endian magnitude bytes. An empty result means "zero"; callers must
// elide the emission entirely in that case.
func UnsignedMagnitude(v uint64) []byte {
	raw := Uint64LE(v)
	return StripTrailingZeros(raw[:])
}

// SignedMagnitude splits a signed value into its sign and absolute value,
// without overflow on math.MinInt64: negating MinInt64 directly overflows an
// int64, so the magnitude is built up from MinInt64+1 (which negates safely)
// plus one.
func SignedMagnitude(v int64) (negative bool, magnitude uint64) {
	if v >= 0 {
		return false, uint64(v)
	}
	return true, uint64(-(v+1)) + 1
}
