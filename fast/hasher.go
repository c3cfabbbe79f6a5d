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

// Package fast implements the fast (non-cryptographic) stable hasher:
// XXH3-128 per leaf, folded into an order-independent 192-bit accumulator,
// finalized through one more XXH3-128 pass keyed by the emission count.
package fast

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/fldhash/stablehash/addr"
	"github.com/fldhash/stablehash/fldmix"
	"github.com/fldhash/stablehash/u192"
)

// Digest is the fast hasher's fixed-width output.
type Digest [16]byte

// Hasher accumulates leaf emissions via the FLD mixer. The zero value is not
// ready to use; call New.
type Hasher struct {
	mixer fldmix.State
	count uint64
}

// New returns a hasher at the identity state, ready to accept writes.
func New() *Hasher {
	return &Hasher{mixer: fldmix.Identity()}
}

// Write emits one (address, payload) leaf: it hashes bytes with XXH3-128
// keyed by the address's low 64 bits, shapes the result with the address's
// high 64 bits as the mixer seed, and folds it into the accumulator.
func (h *Hasher) Write(a addr.Int, payload []byte) {
	sum := xxh3.Hash128Seed(payload, a.Lo)
	shaped := fldmix.Shape(sum.Hi, sum.Lo, a.Hi)
	h.mixer = h.mixer.Mix(shaped)
	h.count++
}

// Mixin folds another hasher's accumulated state into h, as if every leaf
// written to other had been written directly to h (in some order). The
// emission counts add too, wrapping on overflow like every other field here.
func (h *Hasher) Mixin(other *Hasher) {
	h.mixer = h.mixer.Mixin(other.mixer)
	h.count += other.count
}

// Unmixin inverts a prior Mixin(other) call, when invertible.
func (h *Hasher) Unmixin(other *Hasher) bool {
	next, ok := h.mixer.Unmixin(other.mixer)
	if !ok {
		return false
	}
	h.mixer = next
	h.count -= other.count
	return true
}

// Finish produces the final digest: XXH3-128 of the mixer's byte
// representation, keyed by the emission count. The count-as-seed step
// prevents trivial recovery of the mixer's internal state from the digest
// alone.
func (h *Hasher) Finish() Digest {
	raw := h.mixer.Value().Bytes()
	sum := xxh3.Hash128Seed(raw[:], h.count)
	var out Digest
	binary.LittleEndian.PutUint64(out[0:8], sum.Lo)
	binary.LittleEndian.PutUint64(out[8:16], sum.Hi)
	return out
}

// ToBytes serializes the hasher state: 24 bytes of mixer state (little
// endian limbs) followed by 8 bytes of emission count (little endian).
func (h *Hasher) ToBytes() []byte {
	out := make([]byte, 0, 32)
	out = h.mixer.Value().AppendBytes(out)
	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], h.count)
	return append(out, countBuf[:]...)
}

// FromBytes restores a hasher from a 32-byte persisted state. Any 32-byte
// string is accepted: the fast mixer has no invalid states, unlike the
// crypto hasher's "< P" requirement.
func FromBytes(b []byte) *Hasher {
	_ = b[31]
	v := u192.FromBytes(b[:24])
	count := binary.LittleEndian.Uint64(b[24:32])
	return &Hasher{mixer: fldmix.FromValue(v), count: count}
}
