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

package cryptomix

import (
	"math/big"
	"testing"
)

func elem(n int64) *big.Int {
	x := big.NewInt(n)
	x.Mul(x, x)
	x.Add(x, big.NewInt(123456789))
	return x.Mod(x, P)
}

func TestIdentityIsNeutral(t *testing.T) {
	id := Identity()
	x := elem(7)
	got := id.Mix(x)
	if got.v.Cmp(x) != 0 {
		t.Fatalf("mix(1, x) = %v, want %v", got.v, x)
	}
}

func TestCommutative(t *testing.T) {
	a, b := elem(3), elem(11)
	s := Identity()
	ab := s.Mix(a).Mix(b)
	ba := s.Mix(b).Mix(a)
	if ab.v.Cmp(ba.v) != 0 {
		t.Fatal("mix(a); mix(b) != mix(b); mix(a)")
	}
}

func TestMixinMatchesDirectMix(t *testing.T) {
	xs := []*big.Int{elem(1), elem(2), elem(3), elem(4)}
	direct := Identity()
	for _, x := range xs {
		direct = direct.Mix(x)
	}
	subA := Identity().Mix(xs[0]).Mix(xs[1])
	subB := Identity().Mix(xs[2]).Mix(xs[3])
	combined := subA.Mixin(subB)
	if direct.v.Cmp(combined.v) != 0 {
		t.Fatalf("partitioned mixin disagrees: %v vs %v", combined.v, direct.v)
	}
}

func TestUnmixInvertsMix(t *testing.T) {
	s := Identity().Mix(elem(42))
	x := elem(99)
	mixed := s.Mix(x)
	back, ok := mixed.Unmix(x)
	if !ok {
		t.Fatal("expected Unmix to succeed")
	}
	if back.v.Cmp(s.v) != 0 {
		t.Fatalf("Unmix did not restore prior state: got %v want %v", back.v, s.v)
	}
}

func TestFromExpandedReducesModP(t *testing.T) {
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = 0xff
	}
	x := FromExpanded(buf)
	if x.Cmp(P) >= 0 {
		t.Fatal("FromExpanded must reduce below P")
	}
}
