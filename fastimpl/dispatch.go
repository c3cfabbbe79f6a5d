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

// Package fastimpl dispatches Go values into the fast stable hasher: bools,
// integers of every width, options (as pointers), strings/bytes, ordered
// sequences, tuples, records (via reflection) and unordered maps/sets.
//
// A type that wants full control over its own encoding implements StableHash
// directly; everything else falls back to the reflection-based encoder,
// following the same declared-field-order rule.
package fastimpl

import (
	"golang.org/x/exp/constraints"

	"github.com/fldhash/stablehash/addr"
	"github.com/fldhash/stablehash/encode"
	"github.com/fldhash/stablehash/fast"
)

// StableHash is implemented by types that know how to hash themselves.
// HashValue and every container helper in this package check for it before
// falling back to reflection.
type StableHash interface {
	StableHash(a addr.Int, h *fast.Hasher)
}

// Bool emits (addr, []) when v is true and nothing when v is false.
func Bool(a addr.Int, h *fast.Hasher, v bool) {
	if v {
		h.Write(a, nil)
	}
}

// Uint encodes an unsigned integer of any width as its stripped
// little-endian magnitude, emitted at addr. Zero emits nothing.
func Uint[T constraints.Unsigned](a addr.Int, h *fast.Hasher, v T) {
	b := encode.UnsignedMagnitude(uint64(v))
	if len(b) > 0 {
		h.Write(a, b)
	}
}

// Sint encodes a signed integer of any width. A negative value emits a sign
// marker at addr.Child(0) before the magnitude is written at addr itself, so
// that the absent marker for non-negative values lets unsigned and signed
// zero collapse to the same (empty) emission.
func Sint[T constraints.Signed](a addr.Int, h *fast.Hasher, v T) {
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
func Bytes(a addr.Int, h *fast.Hasher, b []byte) {
	if len(b) > 0 {
		h.Write(a, b)
	}
}

// String emits (addr, []byte(s)) when s is non-empty.
func String(a addr.Int, h *fast.Hasher, s string) {
	Bytes(a, h, []byte(s))
}

// Option hashes *v at addr.Child(0) followed by a presence marker at addr
// when v is non-nil, matching Option<T>::Some. A nil v (None) emits nothing.
func Option[T any](a addr.Int, h *fast.Hasher, v *T, hashT func(addr.Int, *fast.Hasher, T)) {
	if v == nil {
		return
	}
	hashT(a.Child(0), h, *v)
	h.Write(a, nil)
}

// Slice hashes each element at addr.Child(i) in order, then hashes the
// length at addr itself -- the length write is what disambiguates trailing
// default elements, e.g. [true, false] from [true, false, false].
func Slice[T any](a addr.Int, h *fast.Hasher, v []T, hashT func(addr.Int, *fast.Hasher, T)) {
	for i, e := range v {
		hashT(a.Child(uint64(i)), h, e)
	}
	Uint(a, h, uint64(len(v)))
}

// Tuple hashes each component at addr.Child(i), in call order. Each
// component closes over its own value; this is Go's stand-in for a fixed
// arity heterogeneous tuple.
func Tuple(a addr.Int, h *fast.Hasher, components ...func(addr.Int, *fast.Hasher)) {
	for i, c := range components {
		c(a.Child(uint64(i)), h)
	}
}

// reservedCountChild is the child index used by UnorderedMap/UnorderedSet to
// emit the member count once the sub-aggregator has been folded in. It must
// not collide with any index used to derive (rollup, member) from the same
// addr; for the integer address form those come from addr.Unordered(),
// which never returns a value equal to addr.Child(anything), so any index
// works here. 0 is as good as any.
const reservedCountChild = 0

// UnorderedMap hashes a map by folding every (key, value) pair into a fresh
// sub-hasher at the shared member address, then writing the sub-hasher's
// digest into the parent at the rollup address. The member count is written
// last so collections of different sizes whose contents would otherwise
// collide still differ.
func UnorderedMap[K comparable, V any](a addr.Int, h *fast.Hasher, m map[K]V, hashKV func(addr.Int, *fast.Hasher, K, V)) {
	rollup, member := a.Unordered()
	sub := fast.New()
	for k, v := range m {
		hashKV(member, sub, k, v)
	}
	digest := sub.Finish()
	h.Write(rollup, digest[:])
	Uint(a.Child(reservedCountChild), h, uint64(len(m)))
}

// UnorderedSet hashes a set (represented as map[T]struct{}, the idiomatic Go
// encoding) the same way UnorderedMap hashes a map, ignoring the value.
func UnorderedSet[T comparable](a addr.Int, h *fast.Hasher, s map[T]struct{}, hashT func(addr.Int, *fast.Hasher, T)) {
	rollup, member := a.Unordered()
	sub := fast.New()
	for k := range s {
		hashT(member, sub, k)
	}
	digest := sub.Finish()
	h.Write(rollup, digest[:])
	Uint(a.Child(reservedCountChild), h, uint64(len(s)))
}

// HashValue dispatches an arbitrary Go value: it prefers a StableHash
// implementation when present, and otherwise falls back to the
// reflection-based encoder in reflect.go.
func HashValue(a addr.Int, h *fast.Hasher, v any) {
	if sh, ok := v.(StableHash); ok {
		sh.StableHash(a, h)
		return
	}
	hashReflect(a, h, reflectValueOf(v))
}
