package layout

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
)

func TestRouteFanIn_StaggersLabels(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{
			{ID: "p1", Kind: canvas.KindTask, Position: canvas.Point{X: 0, Y: 0}},
			{ID: "q", Kind: canvas.KindTask, Position: canvas.Point{X: 0, Y: 800}},
		},
		[]flow.Edge{
			{ID: "fail", Source: "p1", Destination: "q", Relationships: []string{"failure"}},
			{ID: "ok", Source: "p1", Destination: "q", Relationships: []string{"success"}},
		},
	)

	bends, err := RouteFanIn(sg, "q")
	if err != nil {
		t.Fatalf("RouteFanIn() error: %v", err)
	}
	if len(bends) != 2 {
		t.Fatalf("RouteFanIn() routed %d edges, want 2", len(bends))
	}

	okBend := bends["ok"][0]
	failBend := bends["fail"][0]

	// Success sorts before failure, so it gets the leftmost slot.
	if okBend.X >= failBend.X {
		t.Errorf("success bend x = %v, failure bend x = %v; want success left of failure", okBend.X, failBend.X)
	}
	if diff := math.Abs(failBend.X - okBend.X); diff < canvas.LabelWidth+canvas.LabelPadding {
		t.Errorf("bend x spacing = %v, want at least %v", diff, canvas.LabelWidth+canvas.LabelPadding)
	}
}

func TestRouteFanIn_BaseFromSourceRightEdge(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{
			{ID: "p1", Kind: canvas.KindTask, Position: canvas.Point{X: 0, Y: 0}},
			{ID: "q", Kind: canvas.KindTask, Position: canvas.Point{X: 0, Y: 800}},
		},
		[]flow.Edge{
			{ID: "ok", Source: "p1", Destination: "q", Relationships: []string{"success"}},
		},
	)

	bends, err := RouteFanIn(sg, "q")
	if err != nil {
		t.Fatalf("RouteFanIn() error: %v", err)
	}

	// Right edge (352) + half a label (112) + padding (16) = 480.
	want := canvas.Point{X: 480, Y: 32}
	if bends["ok"][0] != want {
		t.Errorf("RouteFanIn() bend = %v, want %v", bends["ok"][0], want)
	}
}

func TestRouteFanIn_DeterministicOrder(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{
			{ID: "a", Kind: canvas.KindTask},
			{ID: "b", Kind: canvas.KindTask},
			{ID: "q", Kind: canvas.KindTask, Position: canvas.Point{Y: 800}},
		},
		[]flow.Edge{
			{ID: "e2", Source: "b", Destination: "q"},
			{ID: "e1", Source: "a", Destination: "q"},
		},
	)

	bends, err := RouteFanIn(sg, "q")
	if err != nil {
		t.Fatalf("RouteFanIn() error: %v", err)
	}

	// Neither edge has relationships; source ID breaks the tie, so a's
	// edge takes the first slot.
	if bends["e1"][0].X >= bends["e2"][0].X {
		t.Errorf("e1 x = %v, e2 x = %v; want e1 first", bends["e1"][0].X, bends["e2"][0].X)
	}
}

func TestRouteFanIn_UnknownDestination(t *testing.T) {
	sg := mustSubgraph(t, []flow.Node{task("a")}, nil)
	_, err := RouteFanIn(sg, "ghost")
	if !errors.Is(err, ErrUnknownNode) {
		t.Errorf("RouteFanIn() error = %v, want ErrUnknownNode", err)
	}
}

func TestRouteFanIn_SkipsSelfLoops(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{task("a"), task("q")},
		[]flow.Edge{
			{ID: "loop", Source: "q", Destination: "q", Bends: []canvas.Point{{X: 10, Y: 10}}},
			{ID: "e1", Source: "a", Destination: "q"},
		},
	)

	bends, err := RouteFanIn(sg, "q")
	if err != nil {
		t.Fatalf("RouteFanIn() error: %v", err)
	}
	if _, ok := bends["loop"]; ok {
		t.Error("RouteFanIn() rerouted a self-loop")
	}
	if _, ok := bends["e1"]; !ok {
		t.Error("RouteFanIn() missed the proper fan-in edge")
	}
}

func TestClearBends_PreservesSelfLoops(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{task("a"), task("b")},
		[]flow.Edge{
			{ID: "loop", Source: "a", Destination: "a", Bends: []canvas.Point{{X: 10, Y: 10}}},
			{ID: "e1", Source: "a", Destination: "b", Bends: []canvas.Point{{X: 50, Y: 50}}},
		},
	)

	bends := ClearBends(sg, true)

	if !slices.Equal(bends["loop"], []canvas.Point{{X: 10, Y: 10}}) {
		t.Errorf("self-loop bends = %v, want preserved [(10,10)]", bends["loop"])
	}
	if len(bends["e1"]) != 0 {
		t.Errorf("e1 bends = %v, want empty", bends["e1"])
	}
}

func TestClearBends_NoPreserve(t *testing.T) {
	sg := mustSubgraph(t,
		[]flow.Node{task("a")},
		[]flow.Edge{
			{ID: "loop", Source: "a", Destination: "a", Bends: []canvas.Point{{X: 10, Y: 10}}},
		},
	)

	bends := ClearBends(sg, false)
	if len(bends["loop"]) != 0 {
		t.Errorf("loop bends = %v, want empty when preservation is off", bends["loop"])
	}
}
