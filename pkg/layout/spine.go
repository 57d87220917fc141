package layout

import (
	"github.com/flowgrid/flowgrid/pkg/flow"
)

// FindSpine computes the spine of a subgraph: the longest simple forward
// path from an entry node, used as the main vertical axis of a layout.
//
// The subgraph is treated as a DAG for this purpose. Back-edges (retry and
// pagination loops) are classified with a white/gray/black depth-first
// coloring and excluded from path search rather than breaking the search.
// Self-loops classify as back-edges and never extend a path.
//
// Ties between equal-length paths resolve toward the entry node with the
// lowest ID, then toward the lowest-ID successor at each step, so the result
// is deterministic for a given snapshot.
//
// Returns nil for an empty subgraph. Nodes not on the spine are candidates
// for branch discovery via [FindBranches].
func FindSpine(sg *flow.Subgraph) []string {
	if sg.NodeCount() == 0 {
		return nil
	}

	back := classifyBackEdges(sg)

	// Longest path over the forward DAG via memoized depth-first search.
	// Each edge has weight 1; bestLen[n] is the node count of the best path
	// starting at n, bestNext[n] the successor on that path.
	bestLen := make(map[string]int, sg.NodeCount())
	bestNext := make(map[string]string, sg.NodeCount())

	var visit func(id string) int
	visit = func(id string) int {
		if l, ok := bestLen[id]; ok {
			return l
		}
		length, next := 1, ""
		for _, e := range sg.OutEdges(id) {
			if back[e.ID] {
				continue
			}
			if l := 1 + visit(e.Destination); l > length || (l == length && next != "" && e.Destination < next) {
				length, next = l, e.Destination
			}
		}
		bestLen[id] = length
		bestNext[id] = next
		return length
	}

	var start string
	startLen := 0
	for _, n := range startNodes(sg) {
		if l := visit(n.ID); l > startLen {
			start, startLen = n.ID, l
		}
	}

	spine := make([]string, 0, startLen)
	for id := start; id != ""; id = bestNext[id] {
		spine = append(spine, id)
	}
	return spine
}

// classifyBackEdges walks the subgraph depth-first and returns the set of
// edge IDs whose destination was already on the DFS stack. Traversal starts
// from entry nodes, then covers any remainder (pure cycles have no entry),
// both in ID order so classification is stable.
func classifyBackEdges(sg *flow.Subgraph) map[string]bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, sg.NodeCount())
	back := make(map[string]bool)

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, e := range sg.OutEdges(id) {
			switch color[e.Destination] {
			case white:
				dfs(e.Destination)
			case gray:
				back[e.ID] = true
			}
		}
		color[id] = black
	}

	for _, n := range sg.EntryNodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range sg.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	return back
}

// startNodes returns the candidate spine starting points: the entry nodes,
// or every node (ID-sorted) when the subgraph has none, which happens when
// the whole snapshot is one cycle.
func startNodes(sg *flow.Subgraph) []*flow.Node {
	if entries := sg.EntryNodes(); len(entries) > 0 {
		return entries
	}
	return sg.Nodes()
}
