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

// Package cryptohasher implements the crypto stable hasher: BLAKE3 XOF
// expansion per leaf, folded into a multiplicative Z/pZ accumulator,
// finalized with a plain BLAKE3 digest of the accumulator bytes.
package cryptohasher

import (
	"fmt"
	"math/big"

	"lukechampine.com/blake3"

	"github.com/fldhash/stablehash/addr"
	"github.com/fldhash/stablehash/cryptomix"
)

// Digest is the crypto hasher's fixed-width output.
type Digest [32]byte

// Hasher accumulates leaf emissions via the crypto FLD mixer.
type Hasher struct {
	mixer cryptomix.State
}

// New returns a hasher at the identity state (1 mod P).
func New() *Hasher {
	return &Hasher{mixer: cryptomix.Identity()}
}

// Write emits one (address, payload) leaf: it finalizes the address's
// incremental BLAKE3 state with 0x00||payload, reads 256 bytes (2048 bits)
// from the resulting XOF, and multiplies that into the accumulator mod P.
func (h *Hasher) Write(a addr.Crypto, payload []byte) {
	hasher := a.Hasher()
	hasher.Write([]byte{0x00})
	hasher.Write(payload)

	var digits [256]byte
	xof := hasher.XOF()
	if _, err := xof.Read(digits[:]); err != nil {
		panic(fmt.Sprintf("cryptohasher: XOF read failed: %v", err))
	}

	x := cryptomix.FromExpanded(digits[:])
	h.mixer = h.mixer.Mix(x)
}

// Mixin folds another hasher's accumulated state into h.
func (h *Hasher) Mixin(other *Hasher) {
	h.mixer = h.mixer.Mixin(other.mixer)
}

// Unmixin inverts a prior Mixin(other) call.
func (h *Hasher) Unmixin(other *Hasher) bool {
	next, ok := h.mixer.Unmixin(other.mixer)
	if !ok {
		return false
	}
	h.mixer = next
	return true
}

// Finish produces the final digest: BLAKE3 of the accumulator's
// little-endian byte representation.
func (h *Hasher) Finish() Digest {
	le := toLittleEndian(h.mixer.Value())
	return Digest(blake3.Sum256(le))
}

// ToBytes serializes the accumulator as its minimal little-endian byte
// representation (at most 257 bytes, since P is a 2049-bit prime).
func (h *Hasher) ToBytes() []byte {
	return toLittleEndian(h.mixer.Value())
}

// FromBytes restores a hasher from a persisted accumulator. It fails if the
// decoded value is >= P: crypto hasher states must always live in [0, P).
func FromBytes(b []byte) (*Hasher, error) {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	v := new(big.Int).SetBytes(be)
	if v.Cmp(cryptomix.P) >= 0 {
		return nil, fmt.Errorf("cryptohasher: persisted value is not < P")
	}
	return &Hasher{mixer: cryptomix.FromValue(v)}, nil
}

func toLittleEndian(v *big.Int) []byte {
	be := v.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}
