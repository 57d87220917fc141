package flow_test

import (
	"fmt"

	"github.com/flowgrid/flowgrid/pkg/flow"
)

func ExampleNewSubgraph() {
	// A fan-out flow: route sends records to an archive and a publisher
	sg, _ := flow.NewSubgraph(
		[]flow.Node{
			{ID: "route"},
			{ID: "archive"},
			{ID: "publish"},
		},
		[]flow.Edge{
			{ID: "c1", Source: "route", Destination: "archive"},
			{ID: "c2", Source: "route", Destination: "publish"},
		},
	)

	fmt.Println("Nodes:", sg.NodeCount())
	fmt.Println("Edges:", sg.EdgeCount())
	fmt.Println("Out-degree of route:", sg.OutDegree("route"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Out-degree of route: 2
}

func ExampleSubgraph_EntryNodes() {
	// Two independent sources feeding one funnel
	sg, _ := flow.NewSubgraph(
		[]flow.Node{
			{ID: "files"},
			{ID: "queue"},
			{ID: "merge"},
		},
		[]flow.Edge{
			{ID: "c1", Source: "files", Destination: "merge"},
			{ID: "c2", Source: "queue", Destination: "merge"},
		},
	)

	for _, n := range sg.EntryNodes() {
		fmt.Println(n.ID)
	}
	// Output:
	// files
	// queue
}
