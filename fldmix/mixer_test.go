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

package fldmix

import (
	"testing"

	"github.com/fldhash/stablehash/u192"
)

func sample(n int) []u192.U192 {
	out := make([]u192.U192, n)
	for i := range out {
		out[i] = Shape(uint64(i*7+1), uint64(i*13+2), uint64(i*31+3))
	}
	return out
}

func TestIdentityIsNeutral(t *testing.T) {
	id := Identity()
	for _, x := range sample(8) {
		got := id.Mix(x)
		if !u192.Equal(got.v, x) {
			t.Fatalf("u(I, %v) = %v, want %v", x, got.v, x)
		}
	}
}

func TestCommutative(t *testing.T) {
	xs := sample(2)
	s := Identity()
	ab := s.Mix(xs[0]).Mix(xs[1])
	ba := s.Mix(xs[1]).Mix(xs[0])
	if !u192.Equal(ab.v, ba.v) {
		t.Fatal("mix(a); mix(b) != mix(b); mix(a)")
	}
}

func TestAssociativeOrderIndependence(t *testing.T) {
	xs := sample(3)
	s := Identity()
	// mix in every permutation order and confirm the same result
	perms := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	var want u192.U192
	for i, p := range perms {
		acc := s
		for _, idx := range p {
			acc = acc.Mix(xs[idx])
		}
		if i == 0 {
			want = acc.v
		} else if !u192.Equal(acc.v, want) {
			t.Fatalf("permutation %v gave a different result", p)
		}
	}
}

func TestMixinMatchesDirectMix(t *testing.T) {
	xs := sample(4)
	direct := Identity()
	for _, x := range xs {
		direct = direct.Mix(x)
	}

	subA := Identity().Mix(xs[0]).Mix(xs[1])
	subB := Identity().Mix(xs[2]).Mix(xs[3])
	combined := subA.Mixin(subB)

	if !u192.Equal(direct.v, combined.v) {
		t.Fatalf("partitioned mixin disagrees with direct mix: %v vs %v", combined.v, direct.v)
	}
}

func TestUnmixInvertsMix(t *testing.T) {
	s := Identity().Mix(Shape(1, 2, 4)) // start from a non-identity state
	x := Shape(9, 8, 6)
	mixed := s.Mix(x)
	back, ok := mixed.Unmix(x)
	if !ok {
		t.Fatal("expected Unmix to succeed")
	}
	if !u192.Equal(back.v, s.v) {
		t.Fatalf("Unmix did not restore prior state: got %v want %v", back.v, s.v)
	}
}

func TestIdentityNonCollision(t *testing.T) {
	id := Identity()
	for _, x := range sample(16) {
		mixed := id.Mix(x)
		if u192.Equal(mixed.v, id.v) {
			t.Fatalf("mixing %v into identity produced identity again", x)
		}
	}
}
