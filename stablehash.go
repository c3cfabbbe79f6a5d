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

// Package stablehash computes digests of typed, composite values that stay
// identical across builds, platforms and program runs, and that tolerate
// schema evolution: trailing optional fields, integer widening, and
// reordering of independent leaves never change the digest.
//
// Two variants are offered. FastStableHash is a non-cryptographic 128-bit
// digest built on XXH3-128 and a 192-bit commutative mixer; it is the one to
// reach for by default. CryptoStableHash is a 256-bit digest built on BLAKE3
// and a multiplicative accumulator modulo a 2049-bit prime, for callers that
// need the mixer's output to resist deliberate collision search.
//
// Built-in Go values (bools, integers of any width, strings, []byte,
// pointers as Option, slices, arrays, maps, struct{}-valued maps as sets,
// and structs via their exported fields in declared order) hash themselves
// automatically through reflection. A type that needs different rules -- or
// wants to skip reflection's cost -- implements fastimpl.StableHash and/or
// cryptoimpl.StableHash directly.
package stablehash

import (
	"github.com/fldhash/stablehash/addr"
	"github.com/fldhash/stablehash/cryptohasher"
	"github.com/fldhash/stablehash/cryptoimpl"
	"github.com/fldhash/stablehash/fast"
	"github.com/fldhash/stablehash/fastimpl"
)

// FastStableHash computes the fast, non-cryptographic digest of value.
func FastStableHash(value any) fast.Digest {
	h := fast.New()
	fastimpl.HashValue(addr.Root(), h, value)
	return h.Finish()
}

// CryptoStableHash computes the crypto digest of value.
func CryptoStableHash(value any) cryptohasher.Digest {
	h := cryptohasher.New()
	cryptoimpl.HashValue(addr.CryptoRoot(), h, value)
	return h.Finish()
}
