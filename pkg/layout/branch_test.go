package layout

import (
	"slices"
	"testing"

	"github.com/flowgrid/flowgrid/pkg/flow"
)

// branchFixture builds a spine a→b→c→d with a branch x off a that fans out
// into y and z.
func branchFixture(t *testing.T) *flow.Subgraph {
	t.Helper()
	return mustSubgraph(t,
		[]flow.Node{task("a"), task("b"), task("c"), task("d"), task("x"), task("y"), task("z")},
		[]flow.Edge{
			edge("e1", "a", "b"),
			edge("e2", "b", "c"),
			edge("e3", "c", "d"),
			edge("e4", "a", "x"),
			edge("e5", "x", "y"),
			edge("e6", "x", "z"),
		},
	)
}

func TestFindBranches_SingleLevel(t *testing.T) {
	sg := branchFixture(t)
	spine := []string{"a", "b", "c", "d"}

	got := FindBranches(sg, spine, BranchOptions{})

	if len(got.Branches) != 1 {
		t.Fatalf("FindBranches() returned %d branches, want 1", len(got.Branches))
	}
	b := got.Branches[0]
	if b.Attachment != "a" || !slices.Equal(b.Path, []string{"x"}) || b.Depth != 1 {
		t.Errorf("branch = %+v, want attachment a, path [x], depth 1", b)
	}
	if !slices.Equal(got.Unplaced, []string{"y", "z"}) {
		t.Errorf("Unplaced = %v, want [y z]", got.Unplaced)
	}
	if got.DepthCapped {
		t.Error("DepthCapped = true for non-recursive discovery, want false")
	}
}

func TestFindBranches_Recursive(t *testing.T) {
	sg := branchFixture(t)
	spine := []string{"a", "b", "c", "d"}

	got := FindBranches(sg, spine, BranchOptions{Recursive: true})

	if len(got.Branches) != 3 {
		t.Fatalf("FindBranches() returned %d branches, want 3", len(got.Branches))
	}
	// Depth-2 branches hang off x.
	for _, b := range got.Branches[1:] {
		if b.Attachment != "x" || b.Depth != 2 {
			t.Errorf("nested branch = %+v, want attachment x at depth 2", b)
		}
	}
	if len(got.Unplaced) != 0 {
		t.Errorf("Unplaced = %v, want empty", got.Unplaced)
	}
	if got.DepthCapped {
		t.Error("DepthCapped = true, want false")
	}
}

func TestFindBranches_DepthCap(t *testing.T) {
	sg := branchFixture(t)
	spine := []string{"a", "b", "c", "d"}

	got := FindBranches(sg, spine, BranchOptions{Recursive: true, MaxDepth: 1})

	if !got.DepthCapped {
		t.Error("DepthCapped = false, want true")
	}
	if !slices.Equal(got.Unplaced, []string{"y", "z"}) {
		t.Errorf("Unplaced = %v, want [y z]", got.Unplaced)
	}
	if len(got.Branches) != 1 {
		t.Errorf("FindBranches() returned %d branches, want 1", len(got.Branches))
	}
}

func TestFindBranches_ChainStopsAtFanIn(t *testing.T) {
	// Branch x→y where y feeds back into spine node c: the chain must stop
	// at y without swallowing c.
	sg := mustSubgraph(t,
		[]flow.Node{task("a"), task("b"), task("c"), task("x"), task("y")},
		[]flow.Edge{
			edge("e1", "a", "b"),
			edge("e2", "b", "c"),
			edge("e3", "a", "x"),
			edge("e4", "x", "y"),
			edge("e5", "y", "c"),
		},
	)
	got := FindBranches(sg, []string{"a", "b", "c"}, BranchOptions{Recursive: true})

	var found *Branch
	for i := range got.Branches {
		if got.Branches[i].Path[0] == "x" {
			found = &got.Branches[i]
		}
	}
	if found == nil {
		t.Fatal("no branch starting at x")
	}
	if !slices.Equal(found.Path, []string{"x", "y"}) {
		t.Errorf("branch path = %v, want [x y]", found.Path)
	}
}

func TestFindBranches_NoBranches(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{task("a"), task("b")},
		[]flow.Edge{edge("e1", "a", "b")},
	)

	got := FindBranches(sg, []string{"a", "b"}, BranchOptions{Recursive: true})

	if len(got.Branches) != 0 || len(got.Unplaced) != 0 || got.DepthCapped {
		t.Errorf("FindBranches() = %+v, want empty result", got)
	}
}
