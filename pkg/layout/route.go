package layout

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
)

// ErrUnknownNode is returned by [RouteFanIn] when the destination node is
// not part of the subgraph.
var ErrUnknownNode = errors.New("unknown node")

// fanInYOffset is the vertical distance from a source component's top edge
// to the bend row, chosen so the label box sits beside the source rather
// than over it.
const fanInYOffset = 32

// RouteFanIn computes bend points for every edge converging on destination
// so that the edges' label boxes land in distinct screen positions.
//
// Edges are ordered by a stable key: success relationships before failure,
// then remaining relationship labels lexicographically, then source ID, then
// edge ID. The nth edge gets a single bend whose x-coordinate is staggered
// by n * (LabelWidth + LabelPadding) from a base just right of the first
// source's right edge, producing a horizontal fan of labels converging
// diagonally on the shared destination. Each bend's y-coordinate sits a
// fixed offset below its own source's top edge.
//
// Self-loop edges on the destination are left alone; their bends are the
// only thing keeping them visible.
func RouteFanIn(sg *flow.Subgraph, destination string) (map[string][]canvas.Point, error) {
	if _, ok := sg.Node(destination); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, destination)
	}

	var edges []*flow.Edge
	for _, e := range sg.InEdges(destination) {
		if !e.IsSelfLoop() {
			edges = append(edges, e)
		}
	}
	slices.SortFunc(edges, compareFanIn)

	bends := make(map[string][]canvas.Point, len(edges))
	if len(edges) == 0 {
		return bends, nil
	}

	first, _ := sg.Node(edges[0].Source)
	firstSize, err := first.Size()
	if err != nil {
		return nil, err
	}
	base := canvas.Snap(first.Position.X + firstSize.Width + canvas.LabelWidth/2 + canvas.LabelPadding)

	for i, e := range edges {
		src, _ := sg.Node(e.Source)
		bends[e.ID] = []canvas.Point{{
			X: base + float64(i)*(canvas.LabelWidth+canvas.LabelPadding),
			Y: canvas.Snap(src.Position.Y + fanInYOffset),
		}}
	}

	return bends, nil
}

// ClearBends resets every edge's bend list to empty. Self-loop edges keep
// their existing bends when preserveSelfLoops is set, since a self-loop with
// zero bends degenerates to an invisible connection.
//
// The returned map covers every edge of the subgraph; self-loop entries hold
// a copy of the current bends.
func ClearBends(sg *flow.Subgraph, preserveSelfLoops bool) map[string][]canvas.Point {
	bends := make(map[string][]canvas.Point, sg.EdgeCount())
	for _, e := range sg.Edges() {
		if preserveSelfLoops && e.IsSelfLoop() {
			bends[e.ID] = slices.Clone(e.Bends)
			continue
		}
		bends[e.ID] = []canvas.Point{}
	}
	return bends
}

// compareFanIn orders fan-in edges deterministically: success relationships
// first, failure second, everything else after, then by first relationship
// label, source ID, and edge ID.
func compareFanIn(a, b *flow.Edge) int {
	if c := relationshipRank(a) - relationshipRank(b); c != 0 {
		return c
	}
	if c := strings.Compare(firstRelationship(a), firstRelationship(b)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Source, b.Source); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func relationshipRank(e *flow.Edge) int {
	switch firstRelationship(e) {
	case "success":
		return 0
	case "failure":
		return 1
	default:
		return 2
	}
}

func firstRelationship(e *flow.Edge) string {
	if len(e.Relationships) == 0 {
		return ""
	}
	return e.Relationships[0]
}
