package layout

import (
	"testing"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
)

func TestTranspose_ShiftsNodesAndBends(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{
			{ID: "a", Kind: canvas.KindTask, Position: canvas.Point{X: 0, Y: 0}},
			{ID: "b", Kind: canvas.KindTask, Position: canvas.Point{X: 400, Y: 600}},
		},
		[]flow.Edge{
			{ID: "e1", Source: "a", Destination: "b", Bends: []canvas.Point{{X: 100, Y: 100}, {X: 200, Y: 300}}},
		},
	)
	offset := canvas.Offset{DX: 160, DY: 80}

	plan := Transpose(sg, offset)

	if plan.Positions["a"] != (canvas.Point{X: 160, Y: 80}) {
		t.Errorf("a = %v, want (160,80)", plan.Positions["a"])
	}
	if plan.Positions["b"] != (canvas.Point{X: 560, Y: 680}) {
		t.Errorf("b = %v, want (560,680)", plan.Positions["b"])
	}
	want := []canvas.Point{{X: 260, Y: 180}, {X: 360, Y: 380}}
	for i, b := range plan.Bends["e1"] {
		if b != want[i] {
			t.Errorf("bend %d = %v, want %v", i, b, want[i])
		}
	}
}

func TestTranspose_SelfLoopKeepsShape(t *testing.T) {
	// The self-loop bend sits at a fixed offset from its node; after the
	// move that relative offset must be identical.
	sg := mustSubgraph(t,
		[]flow.Node{
			{ID: "a", Kind: canvas.KindTask, Position: canvas.Point{X: 0, Y: 0}},
		},
		[]flow.Edge{
			{ID: "loop", Source: "a", Destination: "a", Bends: []canvas.Point{{X: 380, Y: 20}}},
		},
	)

	plan := Transpose(sg, canvas.Offset{DX: 800, DY: 240})

	newPos := plan.Positions["a"]
	bend := plan.Bends["loop"][0]
	if rel := (canvas.Point{X: bend.X - newPos.X, Y: bend.Y - newPos.Y}); rel != (canvas.Point{X: 380, Y: 20}) {
		t.Errorf("self-loop relative bend = %v, want (380,20)", rel)
	}
}

func TestTranspose_EmptyBendsUntouched(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{task("a"), task("b")},
		[]flow.Edge{edge("e1", "a", "b")},
	)

	plan := Transpose(sg, canvas.Offset{DX: 8, DY: 8})
	if _, ok := plan.Bends["e1"]; ok {
		t.Error("Transpose() emitted bends for an edge that has none")
	}
}

func TestTranspose_SnapsPositions(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{{ID: "a", Kind: canvas.KindTask, Position: canvas.Point{X: 16, Y: 16}}},
		nil,
	)

	plan := Transpose(sg, canvas.Offset{DX: 3, DY: 5})
	if !canvas.OnGrid(plan.Positions["a"]) {
		t.Errorf("position %v not grid-aligned after unaligned offset", plan.Positions["a"])
	}
}

func TestTranspose_UnalignedOffsetKeepsShape(t *testing.T) {
	// Nodes and bends must move by the same amount even when the requested
	// offset is off-grid, so the polyline's shape relative to its endpoints
	// never changes.
	sg := mustSubgraph(t,
		[]flow.Node{
			{ID: "a", Kind: canvas.KindTask, Position: canvas.Point{X: 0, Y: 0}},
			{ID: "b", Kind: canvas.KindTask, Position: canvas.Point{X: 400, Y: 600}},
		},
		[]flow.Edge{
			{ID: "e1", Source: "a", Destination: "b", Bends: []canvas.Point{{X: 100, Y: 100}}},
		},
	)

	plan := Transpose(sg, canvas.Offset{DX: 10, DY: 10})

	shift := canvas.Point{X: plan.Positions["a"].X, Y: plan.Positions["a"].Y}
	if shift != (canvas.Point{X: 8, Y: 8}) {
		t.Errorf("a shifted by %v, want snapped offset (8,8)", shift)
	}
	bendShift := canvas.Point{X: plan.Bends["e1"][0].X - 100, Y: plan.Bends["e1"][0].Y - 100}
	if bendShift != shift {
		t.Errorf("bend shifted by %v, node by %v; shifts must match", bendShift, shift)
	}
	if !canvas.OnGrid(plan.Positions["b"]) {
		t.Errorf("b = %v left the grid", plan.Positions["b"])
	}
}
