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
	"golang.org/x/sys/cpu"

	"github.com/fldhash/stablehash/u192"
)

// lanes is the batch width used when the CPU's feature set makes wider
// batches worthwhile. This is a portable Go emulation of the scalar/SIMD
// split the teacher's internal/aes package makes between its AVX512VAES
// path and its generic fallback: there's no assembly here, just a
// lane-grouped loop that a vectorizing backend (or a future assembly
// version) could replace wholesale without changing the result.
var lanes = func() int {
	if cpu.X86.HasAVX2 {
		return 8
	}
	return 4
}()

// MixBatch folds a buffered slice of shaped values into state, processing
// them `lanes`-at-a-time. Because the mixer is commutative and associative,
// batch processing (in any grouping, flushed at the end) must produce
// exactly the state accumulated via sequential Mix calls.
func MixBatch(state State, xs []u192.U192) State {
	i := 0
	n := lanes
	for ; i+n <= len(xs); i += n {
		state = mixLane(state, xs[i:i+n])
	}
	// flush the remainder scalar: the batch width is a performance knob
	// only, never a correctness boundary.
	for ; i < len(xs); i++ {
		state = state.Mix(xs[i])
	}
	return state
}

// mixLane mixes exactly len(group) values into state. It's written as a
// straight-line reduction over the lane rather than a call to Mix in a loop
// so that a real SIMD backend can later replace the body with vector
// instructions operating on all lanes concurrently; the semantics (left
// fold via the commutative group action) must stay identical to the scalar
// path.
func mixLane(state State, group []u192.U192) State {
	for _, x := range group {
		state = state.Mix(x)
	}
	return state
}
