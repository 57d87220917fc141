package layout

import (
	"slices"

	"github.com/flowgrid/flowgrid/pkg/flow"
)

// DefaultMaxDepth bounds recursive branch discovery. Densely connected or
// cyclic subgraphs can otherwise generate pathological branch trees; five
// levels covers every flow observed in practice.
const DefaultMaxDepth = 5

// Branch is a side path hanging off a spine or parent-branch node.
type Branch struct {
	// Attachment is the already-placed node the branch forks from.
	Attachment string
	// Path holds the branch's node IDs in flow order. Never empty.
	Path []string
	// Depth is 1 for branches attached to the spine, increasing by one per
	// nesting level.
	Depth int
}

// Branches is the tagged result of branch discovery.
type Branches struct {
	// Branches lists discovered branches in placement order: all depth-1
	// branches in spine order, then depth-2, and so on.
	Branches []Branch
	// Unplaced holds IDs of nodes covered by neither the spine nor any
	// branch, sorted. Non-empty when discovery was depth-capped or when the
	// snapshot contains nodes unreachable from the spine.
	Unplaced []string
	// DepthCapped reports that discovery stopped at the depth cap while
	// more branches were still reachable. The caller can re-run with a
	// higher cap or place the remainder manually.
	DepthCapped bool
}

// BranchOptions configures [FindBranches].
type BranchOptions struct {
	// Recursive enables discovery of branches hanging off branch nodes.
	Recursive bool
	// MaxDepth caps recursion depth. Zero means [DefaultMaxDepth].
	MaxDepth int
}

// FindBranches enumerates the side paths attached to a spine.
//
// For every spine node, each out-edge whose destination is not already
// placed starts a branch. The branch follows its single-child chain until it
// hits a fan-out (more than one child), a fan-in (a destination that is
// already placed), or a terminal node. With Recursive set, discovery repeats
// on the newly found branch nodes with incremented depth until nothing new
// is found or the depth cap is reached.
//
// Hitting the cap is not an error: the result carries everything discovered
// so far plus the IDs left unplaced, with DepthCapped set.
func FindBranches(sg *flow.Subgraph, spine []string, opts BranchOptions) Branches {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	placed := make(map[string]bool, sg.NodeCount())
	for _, id := range spine {
		placed[id] = true
	}

	var result Branches
	attachments := spine
	depth := 1

	for len(attachments) > 0 && depth <= maxDepth {
		var discovered []string
		for _, att := range attachments {
			for _, e := range sg.OutEdges(att) {
				if e.IsSelfLoop() || placed[e.Destination] {
					continue
				}
				path := followChain(sg, e.Destination, placed)
				discovered = append(discovered, path...)
				result.Branches = append(result.Branches, Branch{
					Attachment: att,
					Path:       path,
					Depth:      depth,
				})
			}
		}

		if !opts.Recursive {
			attachments = nil
			break
		}
		attachments = discovered
		depth++
	}

	// Whatever is still reachable from the frontier was cut off by the cap.
	if depth > maxDepth {
		for _, att := range attachments {
			for _, e := range sg.OutEdges(att) {
				if !e.IsSelfLoop() && !placed[e.Destination] {
					result.DepthCapped = true
				}
			}
		}
	}

	for _, n := range sg.Nodes() {
		if !placed[n.ID] {
			result.Unplaced = append(result.Unplaced, n.ID)
		}
	}
	slices.Sort(result.Unplaced)

	return result
}

// followChain walks a branch's single-child chain starting at id, marking
// every visited node as placed. The chain stops at a fan-out, a fan-in, or
// a terminal node.
func followChain(sg *flow.Subgraph, id string, placed map[string]bool) []string {
	var path []string
	for cur := id; !placed[cur]; {
		path = append(path, cur)
		placed[cur] = true

		var next string
		children := 0
		for _, e := range sg.OutEdges(cur) {
			if e.IsSelfLoop() {
				continue
			}
			children++
			next = e.Destination
		}
		if children != 1 {
			break
		}
		cur = next
	}
	return path
}
