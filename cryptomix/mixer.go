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

// Package cryptomix implements the crypto FLD mixer: a multiplicative
// accumulator in the finite field Z/pZ for a fixed 2049-bit prime p. Unlike
// fldmix's affine construction, this mixer gets its commutativity directly
// from integer multiplication, at the cost of needing a full modular
// exponentiation to invert.
package cryptomix

import "math/big"

// State holds the crypto accumulator: an element of Z/pZ, starting at the
// group identity (1).
type State struct {
	v *big.Int
}

// Identity returns the multiplicative identity, 1 mod P.
func Identity() State {
	return State{v: big.NewInt(1)}
}

// Mix folds a 2048-bit payload value x into the state: state <- state*x mod
// P. x is expected to already be reduced mod P (FromExpanded does this for
// XOF-derived values).
func (s State) Mix(x *big.Int) State {
	v := new(big.Int).Mul(s.v, x)
	v.Mod(v, P)
	return State{v: v}
}

// Mixin folds another accumulator's state into s.
func (s State) Mixin(other State) State {
	return s.Mix(other.v)
}

// Unmix inverts a prior Mix(x) call using Fermat's little theorem:
// x^-1 = x^(P-2) mod P, computed by left-to-right square-and-multiply
// (math/big.Int.Exp already implements this). Fails only if x is 0 mod P,
// which never happens for a properly shaped payload.
func (s State) Unmix(x *big.Int) (State, bool) {
	if x.Sign() == 0 {
		return State{}, false
	}
	inv := new(big.Int).Exp(x, pMinus2, P)
	return s.Mix(inv), true
}

// Unmixin inverts a prior Mixin(other) call.
func (s State) Unmixin(other State) (State, bool) {
	return s.Unmix(other.v)
}

// Value exposes the raw field element, e.g. for serialization.
func (s State) Value() *big.Int { return s.v }

// FromValue wraps a raw field element (already reduced mod P) as a State.
func FromValue(v *big.Int) State { return State{v: new(big.Int).Set(v)} }

// FromExpanded reduces a 2048-bit little-endian XOF expansion (as produced
// by the crypto field-address scheme, spec.md 4.3/4.6) into a field element
// suitable for Mix.
func FromExpanded(leBytes []byte) *big.Int {
	be := make([]byte, len(leBytes))
	for i, b := range leBytes {
		be[len(leBytes)-1-i] = b
	}
	x := new(big.Int).SetBytes(be)
	return x.Mod(x, P)
}
