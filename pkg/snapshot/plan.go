package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/layout"
)

// =============================================================================
// Plan - Layout Result Serialization
// =============================================================================

// Plan is the wire representation of a layout result: absolute positions
// per node ID and bend points per edge ID. Applying a plan to the snapshot
// it was computed from reproduces the suggested arrangement exactly.
type Plan struct {
	Positions map[string]Point   `json:"positions" bson:"positions"`
	Bends     map[string][]Point `json:"bends,omitempty" bson:"bends,omitempty"`
}

// FromPlan converts a layout plan to its serialization format.
func FromPlan(p layout.Plan) Plan {
	out := Plan{Positions: make(map[string]Point, len(p.Positions))}
	for id, pt := range p.Positions {
		out.Positions[id] = Point{X: pt.X, Y: pt.Y}
	}
	if len(p.Bends) > 0 {
		out.Bends = make(map[string][]Point, len(p.Bends))
		for id, pts := range p.Bends {
			out.Bends[id] = pointsToWire(pts)
		}
	}
	return out
}

// ToPlan converts a wire plan back to a layout plan.
func ToPlan(p Plan) layout.Plan {
	out := layout.NewPlan()
	for id, pt := range p.Positions {
		out.SetPosition(id, canvas.Point{X: pt.X, Y: pt.Y})
	}
	for id, pts := range p.Bends {
		out.SetBends(id, pointsFromWire(pts))
	}
	return out
}

// Apply returns a copy of the snapshot with the plan's positions and bends
// written onto matching nodes and edges. Entries for unknown IDs are ignored.
func Apply(s Snapshot, p Plan) Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	copy(out.Nodes, s.Nodes)
	copy(out.Edges, s.Edges)

	for i, n := range out.Nodes {
		if pt, ok := p.Positions[n.ID]; ok {
			out.Nodes[i].X = pt.X
			out.Nodes[i].Y = pt.Y
		}
	}
	for i, e := range out.Edges {
		if pts, ok := p.Bends[e.ID]; ok {
			out.Edges[i].Bends = append([]Point(nil), pts...)
		}
	}
	return out
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalPlan serializes a Plan to pretty-printed JSON bytes.
func MarshalPlan(p Plan) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// UnmarshalPlan deserializes JSON bytes into a Plan.
func UnmarshalPlan(data []byte) (Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	if p.Positions == nil {
		return Plan{}, fmt.Errorf("plan must contain positions")
	}
	return p, nil
}

// WritePlanFile writes a Plan to a JSON file.
func WritePlanFile(p Plan, path string) error {
	data, err := MarshalPlan(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadPlanFile reads a Plan from a JSON file.
func ReadPlanFile(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalPlan(data)
}
