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

package fastimpl

import (
	"testing"

	"github.com/fldhash/stablehash/addr"
	"github.com/fldhash/stablehash/fast"
)

func digestOf(fn func(addr.Int, *fast.Hasher)) fast.Digest {
	h := fast.New()
	fn(addr.Root(), h)
	return h.Finish()
}

func TestBoolDefaultElision(t *testing.T) {
	withTrue := digestOf(func(a addr.Int, h *fast.Hasher) { Bool(a, h, true) })
	withFalse := digestOf(func(a addr.Int, h *fast.Hasher) { Bool(a, h, false) })
	empty := digestOf(func(addr.Int, *fast.Hasher) {})
	if withFalse != empty {
		t.Fatal("false must elide, matching an empty hasher")
	}
	if withTrue == withFalse {
		t.Fatal("true and false must hash differently")
	}
}

func TestTupleComponentsAreIndependentlyAddressed(t *testing.T) {
	a := digestOf(func(a addr.Int, h *fast.Hasher) {
		Tuple(a, h,
			func(addr addr.Int, h *fast.Hasher) { Uint(addr, h, uint32(1)) },
			func(addr addr.Int, h *fast.Hasher) { Uint(addr, h, uint32(2)) },
		)
	})
	b := digestOf(func(a addr.Int, h *fast.Hasher) {
		Tuple(a, h,
			func(addr addr.Int, h *fast.Hasher) { Uint(addr, h, uint32(2)) },
			func(addr addr.Int, h *fast.Hasher) { Uint(addr, h, uint32(1)) },
		)
	})
	if a == b {
		t.Fatal("swapping tuple components must change the digest")
	}
}

func TestOptionSomeDefaultDiffersFromNone(t *testing.T) {
	zero := uint32(0)
	some := digestOf(func(a addr.Int, h *fast.Hasher) {
		Option(a, h, &zero, Uint[uint32])
	})
	none := digestOf(func(a addr.Int, h *fast.Hasher) {
		Option[uint32](a, h, nil, Uint[uint32])
	})
	if some == none {
		t.Fatal("Some(default) must differ from None")
	}
}

func TestSliceLengthDisambiguatesTrailingDefaults(t *testing.T) {
	withTrailing := digestOf(func(a addr.Int, h *fast.Hasher) {
		Slice(a, h, []bool{true, false, false}, Bool)
	})
	without := digestOf(func(a addr.Int, h *fast.Hasher) {
		Slice(a, h, []bool{true, false}, Bool)
	})
	if withTrailing == without {
		t.Fatal("a trailing default element must still change the digest via the length write")
	}
}

func TestUnorderedMapIsOrderIndependent(t *testing.T) {
	m1 := map[int]string{1: "one", 2: "two", 3: "three"}
	m2 := map[int]string{3: "three", 1: "one", 2: "two"}
	hashKV := func(a addr.Int, h *fast.Hasher, k int, v string) {
		Tuple(a, h,
			func(a addr.Int, h *fast.Hasher) { Sint(a, h, int64(k)) },
			func(a addr.Int, h *fast.Hasher) { String(a, h, v) },
		)
	}
	a := digestOf(func(a addr.Int, h *fast.Hasher) { UnorderedMap(a, h, m1, hashKV) })
	b := digestOf(func(a addr.Int, h *fast.Hasher) { UnorderedMap(a, h, m2, hashKV) })
	if a != b {
		t.Fatal("map digest must not depend on iteration order")
	}
}

func TestUnorderedSetCountDisambiguatesMultisets(t *testing.T) {
	s1 := map[int]struct{}{1: {}, 2: {}}
	s2 := map[int]struct{}{1: {}, 2: {}, 3: {}}
	hashT := func(a addr.Int, h *fast.Hasher, k int) { Sint(a, h, int64(k)) }
	a := digestOf(func(a addr.Int, h *fast.Hasher) { UnorderedSet(a, h, s1, hashT) })
	b := digestOf(func(a addr.Int, h *fast.Hasher) { UnorderedSet(a, h, s2, hashT) })
	if a == b {
		t.Fatal("sets of different size must hash differently")
	}
}

type customType struct{ n int }

func (c customType) StableHash(a addr.Int, h *fast.Hasher) {
	Sint(a.Child(99), h, int64(c.n))
}

func TestCustomStableHashOverridesReflection(t *testing.T) {
	a := HashValueDigest(customType{n: 7})
	b := digestOf(func(addr addr.Int, h *fast.Hasher) { Sint(addr.Child(99), h, int64(7)) })
	if a != b {
		t.Fatal("a custom StableHash implementation must take priority over reflection")
	}
}

func HashValueDigest(v any) fast.Digest {
	h := fast.New()
	HashValue(addr.Root(), h, v)
	return h.Finish()
}
