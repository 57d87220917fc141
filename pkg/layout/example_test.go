package layout_test

import (
	"fmt"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
	"github.com/flowgrid/flowgrid/pkg/layout"
)

func ExampleFindSpine() {
	// A linear flow: fetch → validate → publish
	sg, _ := flow.NewSubgraph(
		[]flow.Node{
			{ID: "fetch"},
			{ID: "validate"},
			{ID: "publish"},
		},
		[]flow.Edge{
			{ID: "c1", Source: "fetch", Destination: "validate"},
			{ID: "c2", Source: "validate", Destination: "publish"},
		},
	)

	fmt.Println("Spine:", layout.FindSpine(sg))
	// Output:
	// Spine: [fetch validate publish]
}

func ExampleSuggest() {
	// Stack a linear flow from the origin; each task row is one component
	// height plus the vertical gap below the previous one.
	sg, _ := flow.NewSubgraph(
		[]flow.Node{
			{ID: "fetch"},
			{ID: "validate"},
			{ID: "publish"},
		},
		[]flow.Edge{
			{ID: "c1", Source: "fetch", Destination: "validate"},
			{ID: "c2", Source: "validate", Destination: "publish"},
		},
	)

	res, _ := layout.Suggest(sg, layout.Options{
		Origin: canvas.Point{X: 400, Y: 400},
	})

	for _, id := range res.Spine {
		pos := res.Plan.Positions[id]
		fmt.Printf("%s: (%g, %g)\n", id, pos.X, pos.Y)
	}
	// Output:
	// fetch: (400, 400)
	// validate: (400, 600)
	// publish: (400, 800)
}

func ExampleTranspose() {
	sg, _ := flow.NewSubgraph(
		[]flow.Node{
			{ID: "fetch", Position: canvas.Point{X: 96, Y: 96}},
		},
		nil,
	)

	plan := layout.Transpose(sg, canvas.Offset{DX: 80, DY: -40})
	fmt.Println("fetch:", plan.Positions["fetch"])
	// Output:
	// fetch: {176 56}
}
