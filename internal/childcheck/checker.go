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

// Package childcheck is a debugging aid, not a runtime dependency of the
// hashers: the caller reports each field-address step of a dispatch walk
// (Write, Parent, Unordered) and the checker returns the first illegal reuse
// or state transition, with the breadcrumb path that produced it. It only targets the integer address
// form, since that is the one whose addresses are cheap to compare directly;
// the crypto form's addresses are incremental hash states, expensive to
// compare without finalizing, and not the form anyone hand-writes dispatch
// code against.
package childcheck

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/fldhash/stablehash/addr"
)

// role records how an address was last touched, so the next touch can be
// checked against the legal transition table.
type role int

const (
	unused role = iota
	written
	parent
	unorderedParent
	unorderedRollup
	unorderedMember
)

func (r role) String() string {
	switch r {
	case unused:
		return "unused"
	case written:
		return "written"
	case parent:
		return "parent"
	case unorderedParent:
		return "unordered-parent"
	case unorderedRollup:
		return "unordered-rollup"
	case unorderedMember:
		return "unordered-member"
	default:
		return "invalid"
	}
}

type entry struct {
	role       role
	breadcrumb string
}

// Checker tracks every address reached during a simulated dispatch walk and
// flags the first illegal reuse.
type Checker struct {
	seen map[addr.Int]entry
}

// New returns an empty checker.
func New() *Checker {
	return &Checker{seen: make(map[addr.Int]entry)}
}

// Violation describes the first rule broken.
type Violation struct {
	Addr       addr.Int
	From       string
	To         string
	Breadcrumb string
	PriorPath  string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("childcheck: address reused as %s after %s (at %q, previously reached via %q)",
		v.To, v.From, v.Breadcrumb, v.PriorPath)
}

// legal reports whether transitioning an address from `from` to `to` is
// allowed: a fresh address may be written, used as a parent (its children
// derived via Child), or used to start an unordered collection; a parent may
// be reported as a parent again (once per derived child) but never written
// after being split into children; an unordered parent may become the
// collection's rollup or member address (the integer form's Unordered
// returns the parent itself as member); and the unordered rollup/member
// addresses are terminal once produced. The dispatch rules for Option,
// slices and negative integers write at an address after deriving a child
// from it, which this table reports as a write after parent.
func legal(from, to role) bool {
	switch from {
	case unused:
		return true
	case parent:
		return to == parent
	case unorderedParent:
		return to == unorderedRollup || to == unorderedMember
	default:
		return false
	}
}

// Write records that addr received a leaf emission.
func (c *Checker) Write(a addr.Int, breadcrumb string) error {
	return c.touch(a, written, breadcrumb)
}

// Parent records that addr was used to derive at least one child.
func (c *Checker) Parent(a addr.Int, breadcrumb string) error {
	return c.touch(a, parent, breadcrumb)
}

// Unordered records that addr was split into a (rollup, member) pair.
func (c *Checker) Unordered(a addr.Int, rollup, member addr.Int, breadcrumb string) error {
	if err := c.touch(a, unorderedParent, breadcrumb); err != nil {
		return err
	}
	if err := c.touch(rollup, unorderedRollup, breadcrumb+"/rollup"); err != nil {
		return err
	}
	return c.touch(member, unorderedMember, breadcrumb+"/member")
}

// Breadcrumbs returns every breadcrumb visited so far, sorted so that a
// diagnostic dump is stable across runs even though map iteration isn't.
func (c *Checker) Breadcrumbs() []string {
	out := make([]string, 0, len(c.seen))
	for _, e := range c.seen {
		out = append(out, e.breadcrumb)
	}
	slices.Sort(out)
	return out
}

func (c *Checker) touch(a addr.Int, to role, breadcrumb string) error {
	prior, ok := c.seen[a]
	from := unused
	if ok {
		from = prior.role
	}
	if !legal(from, to) {
		return &Violation{
			Addr:       a,
			From:       from.String(),
			To:         to.String(),
			Breadcrumb: breadcrumb,
			PriorPath:  prior.breadcrumb,
		}
	}
	c.seen[a] = entry{role: to, breadcrumb: breadcrumb}
	return nil
}
