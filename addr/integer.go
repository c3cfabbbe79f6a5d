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

// Package addr implements the two field-address schemes (integer and
// crypto) used to label every leaf emission within a composite value with a
// path-unique identifier.
package addr

import "math/bits"

// Int is the integer-form field address: a 128-bit value produced by a
// multiply-add walk from a fixed root, split into Lo/Hi 64-bit halves so the
// fast stable hasher can key XXH3 with one half and the outer mixer with the
// other (spec.md 4.5). Two distinct paths built from Root and Child are
// expected to differ across realistic structural prototypes (depth <= 8,
// sibling fanout <= ~256); see addr_fuzz_test.go for the empirical check.
// Unordered does not derive new addresses: it returns Root() and the
// address itself.
type Int struct {
	Lo, Hi uint64
}

// Locked constants: DO NOT ALTER. Every integer-form address, and therefore
// every fast digest, depends on these exact values.
var (
	intRoot       = Int{Lo: 17, Hi: 0}
	intMultiplier = Int{Lo: 486_187_739, Hi: 0}
)

// Root returns the address of the top-level value being hashed.
func Root() Int { return intRoot }

// Child returns the address of the n-th child of a, via a wrapping
// 128-bit multiply-add walk: a*multiplier + n mod 2^128.
func (a Int) Child(n uint64) Int {
	return add128(mul128(a, intMultiplier), Int{Lo: n})
}

// Unordered returns (rollupAddr, memberAddr): rollupAddr relates an
// unordered collection back to its parent, memberAddr is shared by every
// element of the collection so that the collection's commutative
// sub-aggregator treats them symmetrically.
func (a Int) Unordered() (rollup, member Int) {
	return Root(), a
}

func mul128(x, y Int) Int {
	hi, lo := bits.Mul64(x.Lo, y.Lo)
	hi += x.Lo*y.Hi + x.Hi*y.Lo
	return Int{Lo: lo, Hi: hi}
}

func add128(x, y Int) Int {
	lo, carry := bits.Add64(x.Lo, y.Lo, 0)
	hi, _ := bits.Add64(x.Hi, y.Hi, carry)
	return Int{Lo: lo, Hi: hi}
}
