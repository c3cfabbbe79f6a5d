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

package addr

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Crypto is the crypto-form field address: an incremental BLAKE3 state
// whose ingested bytes are the sequence of child indices along the path
// from the root.
type Crypto struct {
	h *blake3.Hasher
}

// unorderedRollup and unorderedMember are reserved child indices used by
// Unordered. No realistic structural prototype (spec.md's bound is depth<=8,
// fanout<=256) will ever legitimately address a child this large, so
// reserving them keeps Unordered's two addresses disjoint from every
// ordinary Child(n) address derived from the same parent.
//
// Neither value may be ^uint64(0): Child writes varint(n+1), and n+1 wraps to
// 0 exactly when n is ^uint64(0), which would make Child(n) write the same
// literal 0x00 byte that Write prepends before a payload, defeating the
// terminator marker's injectivity. ^uint64(0)-1 and ^uint64(0)-2 both shift
// to nonzero varints and stay clear of that collision.
const (
	unorderedRollup uint64 = ^uint64(0) - 1
	unorderedMember uint64 = ^uint64(0) - 2
)

// CryptoRoot returns the address of the top-level value being hashed.
func CryptoRoot() Crypto {
	return Crypto{h: blake3.New(32, nil)}
}

// Child returns the address of the n-th child of a. The hasher is cloned (a
// cheap value copy: blake3.Hasher holds no pointers into shared state) and
// fed varint(n+1); the +1 shift reserves zero as an injective terminator
// marker: a payload emission writes a literal 0x00 byte that no child index
// can ever produce.
func (a Crypto) Child(n uint64) Crypto {
	clone := *a.h
	writeVarint(&clone, n+1)
	return Crypto{h: &clone}
}

// Unordered returns (rollupAddr, memberAddr) via two reserved child indices:
// rollupAddr relates the unordered collection back to its parent, while
// memberAddr is shared by every element, keeping them symmetric under the
// sub-aggregator's commutative mixing.
func (a Crypto) Unordered() (rollup, member Crypto) {
	return a.Child(unorderedRollup), a.Child(unorderedMember)
}

// Hasher exposes a clone of the incremental BLAKE3 state for finalization.
// Callers (the crypto stable hasher) own the returned value exclusively;
// the original address is left untouched and can still be used to derive
// further children.
func (a Crypto) Hasher() *blake3.Hasher {
	clone := *a.h
	return &clone
}

// writeVarint appends the unsigned LEB128 encoding of v to h.
func writeVarint(h *blake3.Hasher, v uint64) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	h.Write(buf[:n])
}
