package layout

import (
	"github.com/flowgrid/flowgrid/pkg/canvas"
)

// Plan is the sole output artifact of the layout engine: new positions per
// node and, when bend routing was involved, new bend lists per edge. A Plan
// is a pure value; applying it to the authoritative graph is the caller's
// responsibility.
//
// Maps are never nil after [NewPlan]. A node or edge absent from the maps is
// left untouched by the caller.
type Plan struct {
	Positions map[string]canvas.Point
	Bends     map[string][]canvas.Point
}

// NewPlan creates an empty plan with initialized maps.
func NewPlan() Plan {
	return Plan{
		Positions: make(map[string]canvas.Point),
		Bends:     make(map[string][]canvas.Point),
	}
}

// SetPosition records a new position for the node.
func (p Plan) SetPosition(nodeID string, pos canvas.Point) {
	p.Positions[nodeID] = pos
}

// SetBends records a new bend list for the edge.
func (p Plan) SetBends(edgeID string, bends []canvas.Point) {
	p.Bends[edgeID] = bends
}

// Merge copies all assignments from other into p. Later assignments win.
func (p Plan) Merge(other Plan) {
	for id, pos := range other.Positions {
		p.Positions[id] = pos
	}
	for id, bends := range other.Bends {
		p.Bends[id] = bends
	}
}

// Len returns the number of position assignments in the plan.
func (p Plan) Len() int { return len(p.Positions) }
