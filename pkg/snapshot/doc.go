// Package snapshot provides serialization types for flow graphs and layout plans.
//
// This package defines the canonical wire format for Flowgrid's data, used
// for JSON files, API requests and responses, caching, and plan storage.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Snapshot], [Plan]: Serialization types (this package)
//   - pkg/flow.Subgraph: Internal graph representation
//   - pkg/layout.Plan: Internal layout result (positions, bends)
//
// Use [ToSubgraph]/[FromSubgraph] and [ToPlan]/[FromPlan] to convert
// between them.
//
// # Snapshot Serialization
//
// Snapshots use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "fetch", "kind": "task", "x": 400, "y": 400}],
//	  "edges": [{"id": "e1", "source": "fetch", "destination": "parse"}]
//	}
//
// A node with no kind defaults to "task". Positions are absolute canvas
// coordinates of the component's top-left corner.
//
// # Plans
//
// A [Plan] captures the output of a layout run without mutating the
// snapshot it was computed from. [Apply] writes a plan back onto a
// snapshot, which is how callers commit a suggested arrangement.
package snapshot
