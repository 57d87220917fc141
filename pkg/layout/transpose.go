package layout

import (
	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
)

// Transpose rigidly translates a subgraph: every node position and every
// internal edge's bend points shift by the same offset, preserving the
// subgraph's shape. The offset itself is snapped to the grid before it is
// applied, so grid-aligned inputs stay grid-aligned and polylines keep
// their geometry relative to their nodes, self-loops included.
//
// The typical use is separating two independently laid-out subgraphs that
// were discovered to overlap:
//
//	min, _, _ := b.Bounds()
//	_, max, _ := a.Bounds()
//	plan := layout.Transpose(b, canvas.Offset{DX: max.X + gap - min.X})
func Transpose(sg *flow.Subgraph, offset canvas.Offset) Plan {
	offset = canvas.SnapOffset(offset)
	plan := NewPlan()

	for _, n := range sg.Nodes() {
		plan.SetPosition(n.ID, n.Position.Add(offset))
	}

	for _, e := range sg.Edges() {
		if len(e.Bends) == 0 {
			continue
		}
		bends := make([]canvas.Point, len(e.Bends))
		for i, b := range e.Bends {
			bends[i] = b.Add(offset)
		}
		plan.SetBends(e.ID, bends)
	}

	return plan
}
