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

// Package fldmix implements the fast, non-cryptographic FLD mixer: a
// commutative, associative group action over 192-bit integers used to fold
// per-leaf payload hashes into an order-independent accumulator. The name
// follows the "field-like" mixer construction of Lemire-Kaser /
// Ventullo-style mixers: u(x, y) = P + Q*(x+y) + R*x*y, all mod 2^192.
package fldmix

import (
	"math/big"

	"github.com/fldhash/stablehash/u192"
)

// State is the FLD accumulator: a 192-bit integer. The emission counter of
// the (mixer, count) pair lives in fast.Hasher, not here.
type State struct {
	v u192.U192
}

// Locked mixer constants. DO NOT ALTER: these are wire-visible and every
// digest ever produced depends on them remaining exactly as specified.
var (
	P = u192.FromLimbs(2305843009213693959, 2305843009213693950, 0)
	Q = u192.FromLimbs(18446744073709551609, 0, 0) // 2^64 - 7
	R = u192.FromLimbs(8, 0, 0)

	// I is the group's identity element: u(I, y) = y for all y. Derived
	// from I = -(P/Q) mod 2^192, chosen so that p*r = q*(q-1).
	I = u192.FromLimbs(16140901064495857665, 18446744073709551615, 18446744073709551615)
)

// Identity returns a freshly initialized accumulator (the group identity).
func Identity() State {
	return State{v: I}
}

// u computes P + Q*(x+y) + R*x*y mod 2^192, the group action at the heart of
// the mixer.
func u(x, y u192.U192) u192.U192 {
	sum := u192.Add(x, y)
	qSum := u192.Mul(Q, sum)
	rxy := u192.Mul(R, u192.Mul(x, y))
	return u192.Add(u192.Add(P, qSum), rxy)
}

// Mix folds one shaped payload value into the state. The caller is
// responsible for shaping (value, seed) pairs per Shape before calling Mix;
// Mix itself just applies the group action.
func (s State) Mix(x u192.U192) State {
	return State{v: u(s.v, x)}
}

// Mixin folds another accumulator's state into s. Because u is associative
// and commutative, this composes exactly as if every leaf mixed into other
// had been mixed directly into s, in any order.
func (s State) Mixin(other State) State {
	return State{v: u(s.v, other.v)}
}

// Unmix inverts a prior Mix(x) call, provided Q + R*x is odd (invertible mod
// 2^192). Callers must only Unmix values that were actually previously
// mixed; unmixing an arbitrary value whose multiplier happens to be odd will
// "succeed" but produce a meaningless state.
func (s State) Unmix(x u192.U192) (State, bool) {
	mult := u192.Add(Q, u192.Mul(R, x))
	inv, ok := modInv2192(mult)
	if !ok {
		return State{}, false
	}
	// u(prev, x) = P + Q*(prev+x) + R*prev*x = prev*(Q+R*x) + (P+Q*x)
	// => prev = (state - (P+Q*x)) * inv
	qx := u192.Mul(Q, x)
	c := u192.Add(P, qx)
	diff := u192.Add(s.v, negate(c))
	prev := u192.Mul(diff, inv)
	return State{v: prev}, true
}

// Unmixin inverts a prior Mixin(other) call, when other's multiplier
// (Q + R*other.v) is invertible.
func (s State) Unmixin(other State) (State, bool) {
	return s.Unmix(other.v)
}

// Value exposes the raw 192-bit state, e.g. for serialization.
func (s State) Value() u192.U192 { return s.v }

// FromValue wraps a raw 192-bit value as a State, e.g. after deserializing.
func FromValue(v u192.U192) State { return State{v: v} }

// Shape packs a (value: u128, seed: u64) pair into the 192-bit integer the
// mixer operates on, as [seed, value_lo, value_hi]. The seed's top bit is
// masked off so it can never equal I[0]'s top bit, guaranteeing any shaped
// element differs from the identity state (see TestIdentityNonCollision).
func Shape(valueHi, valueLo, seed uint64) u192.U192 {
	maskedSeed := seed & (^uint64(0) >> 1)
	return u192.FromLimbs(maskedSeed, valueLo, valueHi)
}

func negate(x u192.U192) u192.U192 {
	// -x mod 2^192 = (2^192 - x) = (~x + 1) mod 2^192
	notX := u192.U192{^x[0], ^x[1], ^x[2]}
	return u192.Add(notX, u192.FromLimbs(1, 0, 0))
}

// modInv2192 computes the multiplicative inverse of x modulo 2^192 via the
// extended Euclidean algorithm over a 256-bit intermediate (math/big.Int is
// used purely as that 256-bit scratch space; this is not on the hot mixing
// path). The inverse exists iff x is odd.
func modInv2192(x u192.U192) (u192.U192, bool) {
	if x[0]&1 == 0 {
		return u192.U192{}, false
	}
	b := x.Bytes()
	xBig := new(big.Int).SetBytes(reverse(b[:]))
	mod := new(big.Int).Lsh(big.NewInt(1), 192)
	inv := new(big.Int).ModInverse(xBig, mod)
	if inv == nil {
		return u192.U192{}, false
	}
	var out [24]byte
	inv.FillBytes(out[:])
	return u192.FromBytes(reverse(out[:])), true
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
