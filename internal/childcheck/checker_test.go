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

package childcheck

import (
	"testing"

	"github.com/fldhash/stablehash/addr"
)

func TestCleanStructWalkPasses(t *testing.T) {
	c := New()
	root := addr.Root()
	if err := c.Parent(root, "root"); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
	if err := c.Write(root.Child(0), "root.0"); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
	if err := c.Write(root.Child(1), "root.1"); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
}

func TestWriteAfterParentIsIllegal(t *testing.T) {
	c := New()
	root := addr.Root()
	if err := c.Parent(root, "root"); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
	if err := c.Write(root, "root (reused)"); err == nil {
		t.Fatal("expected a violation: a parent address must never also be written directly")
	}
}

func TestDuplicateWriteIsIllegal(t *testing.T) {
	c := New()
	a := addr.Root().Child(3)
	if err := c.Write(a, "first"); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
	if err := c.Write(a, "second"); err == nil {
		t.Fatal("expected a violation: the same address must not be written twice")
	}
}

func TestBreadcrumbsAreSorted(t *testing.T) {
	c := New()
	root := addr.Root()
	_ = c.Write(root.Child(9), "root.9")
	_ = c.Write(root.Child(2), "root.2")
	_ = c.Write(root.Child(5), "root.5")
	got := c.Breadcrumbs()
	want := []string{"root.2", "root.5", "root.9"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Breadcrumbs() = %v, want %v", got, want)
		}
	}
}

func TestUnorderedSplitThenReuseIsIllegal(t *testing.T) {
	c := New()
	a := addr.Root().Child(5)
	rollup, member := a.Unordered()
	if err := c.Unordered(a, rollup, member, "set"); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
	if err := c.Write(rollup, "set/rollup (reused)"); err == nil {
		t.Fatal("expected a violation: the rollup address is terminal once produced")
	}
}
