package layout

import (
	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
)

// Options configures [Suggest].
type Options struct {
	// Origin is the position of the first spine node. Snapped to the grid.
	Origin canvas.Point
	// MaxDepth caps branch recursion. Zero means [DefaultMaxDepth].
	MaxDepth int
}

// Result is the tagged output of [Suggest].
type Result struct {
	// Plan holds a position for every placed node.
	Plan Plan
	// Spine lists the IDs placed on the main vertical axis, top to bottom.
	Spine []string
	// Unplaced lists IDs the planner did not position, sorted. See
	// [Branches.Unplaced].
	Unplaced []string
	// DepthCapped reports that branch discovery hit the depth cap.
	DepthCapped bool
}

// Suggest assigns a position to every reachable node of a subgraph.
//
// Spine nodes stack vertically from the origin, each placed via
// [canvas.Below] left-aligned with its predecessor. Branch heads fork
// diagonally off their attachment point, alternating left and right per
// sibling branch at the same attachment so siblings do not stack; branch
// tails stack below their head. Ports and Funnels are centered under their
// reference instead of left-aligned.
//
// Placement is purely local: terminal nodes of different branches converging
// at the same depth, and branches nested deeper than one level, can still
// overlap. Resolving those cases is left to the caller, typically by nudging
// individual nodes or transposing whole subgraphs afterwards.
//
// Suggest is deterministic: identical snapshots and options produce
// identical results.
func Suggest(sg *flow.Subgraph, opts Options) (Result, error) {
	result := Result{Plan: NewPlan()}
	if sg.NodeCount() == 0 {
		return result, nil
	}

	spine := FindSpine(sg)
	result.Spine = spine

	// Spine: stacked vertically from the origin.
	prev := ""
	for i, id := range spine {
		node, _ := sg.Node(id)
		if i == 0 {
			result.Plan.SetPosition(id, canvas.SnapPoint(opts.Origin))
			prev = id
			continue
		}
		prevNode, _ := sg.Node(prev)
		pos, err := canvas.Below(result.Plan.Positions[prev], prevNode.Kind, node.Kind, alignFor(node.Kind))
		if err != nil {
			return Result{}, err
		}
		result.Plan.SetPosition(id, pos)
		prev = id
	}

	branches := FindBranches(sg, spine, BranchOptions{Recursive: true, MaxDepth: opts.MaxDepth})
	result.Unplaced = branches.Unplaced
	result.DepthCapped = branches.DepthCapped

	// Sibling branches at the same attachment alternate fork direction,
	// starting left, so they fan out instead of stacking.
	forked := make(map[string]int)
	for _, b := range branches.Branches {
		attNode, _ := sg.Node(b.Attachment)
		dir := canvas.DirectionLeft
		if forked[b.Attachment]%2 == 1 {
			dir = canvas.DirectionRight
		}
		forked[b.Attachment]++

		prev := b.Attachment
		prevKind := attNode.Kind
		for i, id := range b.Path {
			node, _ := sg.Node(id)
			var (
				pos canvas.Point
				err error
			)
			if i == 0 {
				pos, err = canvas.Fork(result.Plan.Positions[prev], prevKind, node.Kind, dir)
			} else {
				pos, err = canvas.Below(result.Plan.Positions[prev], prevKind, node.Kind, alignFor(node.Kind))
			}
			if err != nil {
				return Result{}, err
			}
			result.Plan.SetPosition(id, pos)
			prev = id
			prevKind = node.Kind
		}
	}

	return result, nil
}

// alignFor maps a component kind to the alignment used when stacking it
// under a reference component.
func alignFor(kind canvas.Kind) canvas.Alignment {
	switch kind {
	case canvas.KindFunnel:
		return canvas.AlignCenter
	case canvas.KindPort:
		return canvas.AlignCenterPort
	default:
		return canvas.AlignLeft
	}
}
