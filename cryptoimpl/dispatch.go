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

// Package cryptoimpl dispatches Go values into the crypto stable hasher.
// It mirrors fastimpl's rules exactly (they are the same dispatch protocol
// applied to a different address/hasher pair); see that package for the
// rationale behind each rule.
package cryptoimpl

import (
	"golang.org/x/exp/constraints"

	"github.com/fldhash/stablehash/addr"
	"github.com/fldhash/stablehash/cryptohasher"
	"github.com/fldhash/stablehash/encode"
)

// StableHash is implemented by types that know how to hash themselves for
// the crypto variant.
type StableHash interface {
	StableHash(a addr.Crypto, h *cryptohasher.Hasher)
}

// Bool emits (addr, []) when v is true and nothing when v is false.
func Bool(a addr.Crypto, h *cryptohasher.Hasher, v bool) {
	if v {
		h.Write(a, nil)
	}
}

// Uint encodes an unsigned integer of any width as its stripped
// little-endian magnitude.
func Uint[T constraints.Unsigned](a addr.Crypto, h *cryptohasher.Hasher, v T) {
	b := encode.UnsignedMagnitude(uint64(v))
	if len(b) > 0 {
		h.Write(a, b)
	}
}

// Sint encodes a signed integer of any width, sign marker first.
func Sint[T constraints.Signed](a addr.Crypto, h *cryptohasher.Hasher, v T) {
	neg, mag := encode.SignedMagnitude(int64(v))
	if neg {
		h.Write(a.Child(0), nil)
	}
	b := encode.UnsignedMagnitude(mag)
	if len(b) > 0 {
		h.Write(a, b)
	}
}

// Bytes emits (addr, b) when b is non-empty.
func Bytes(a addr.Crypto, h *cryptohasher.Hasher, b []byte) {
	if len(b) > 0 {
		h.Write(a, b)
	}
}

// String emits (addr, []byte(s)) when s is non-empty.
func String(a addr.Crypto, h *cryptohasher.Hasher, s string) {
	Bytes(a, h, []byte(s))
}

// Option hashes *v at addr.Child(0) then marks presence at addr; nil emits
// nothing.
func Option[T any](a addr.Crypto, h *cryptohasher.Hasher, v *T, hashT func(addr.Crypto, *cryptohasher.Hasher, T)) {
	if v == nil {
		return
	}
	hashT(a.Child(0), h, *v)
	h.Write(a, nil)
}

// Slice hashes each element at addr.Child(i), then the length at addr.
func Slice[T any](a addr.Crypto, h *cryptohasher.Hasher, v []T, hashT func(addr.Crypto, *cryptohasher.Hasher, T)) {
	for i, e := range v {
		hashT(a.Child(uint64(i)), h, e)
	}
	Uint(a, h, uint64(len(v)))
}

// Tuple hashes each component at addr.Child(i), in call order.
func Tuple(a addr.Crypto, h *cryptohasher.Hasher, components ...func(addr.Crypto, *cryptohasher.Hasher)) {
	for i, c := range components {
		c(a.Child(uint64(i)), h)
	}
}

// reservedCountChild is the child index used for the member-count marker of
// an unordered collection. addr.Crypto.Unordered() reserves two sentinel
// child indices of its own for (rollup, member); this index must differ
// from both, which it does (see addr/crypto.go).
const reservedCountChild = 0

// UnorderedMap folds every (key, value) pair into a fresh sub-hasher at the
// shared member address, writes the sub-hasher's digest into the parent at
// the rollup address, then writes the member count.
func UnorderedMap[K comparable, V any](a addr.Crypto, h *cryptohasher.Hasher, m map[K]V, hashKV func(addr.Crypto, *cryptohasher.Hasher, K, V)) {
	rollup, member := a.Unordered()
	sub := cryptohasher.New()
	for k, v := range m {
		hashKV(member, sub, k, v)
	}
	digest := sub.Finish()
	h.Write(rollup, digest[:])
	Uint(a.Child(reservedCountChild), h, uint64(len(m)))
}

// UnorderedSet hashes a set (map[T]struct{}) the same way UnorderedMap
// hashes a map, ignoring the value.
func UnorderedSet[T comparable](a addr.Crypto, h *cryptohasher.Hasher, s map[T]struct{}, hashT func(addr.Crypto, *cryptohasher.Hasher, T)) {
	rollup, member := a.Unordered()
	sub := cryptohasher.New()
	for k := range s {
		hashT(member, sub, k)
	}
	digest := sub.Finish()
	h.Write(rollup, digest[:])
	Uint(a.Child(reservedCountChild), h, uint64(len(s)))
}

// HashValue dispatches an arbitrary Go value: a StableHash implementation
// takes priority, otherwise the reflection-based encoder in reflect.go runs.
func HashValue(a addr.Crypto, h *cryptohasher.Hasher, v any) {
	if sh, ok := v.(StableHash); ok {
		sh.StableHash(a, h)
		return
	}
	hashReflect(a, h, reflectValueOf(v))
}
