// Package pkg provides the core libraries for Flowgrid canvas layout.
//
// # Overview
//
// Flowgrid computes tidy placements for flow-based processing graphs: the
// dominant path through a process group is stacked vertically, side branches
// fork out diagonally, and fan-in connection labels are spread with bend
// points. The pkg directory is organized into five main areas:
//
//  1. [canvas] - Geometry catalogue and positioning primitives
//  2. [flow] - Validated, query-friendly view of a flow subgraph
//  3. [layout] - Spine analysis, placement, routing, transposition, grids
//  4. [snapshot] - Serialization of snapshots and layout plans
//  5. [pipeline] - Orchestration (validate → layout → render) with caching
//
// # Architecture
//
// The typical data flow through Flowgrid:
//
//	Flow engine export (snapshot.json)
//	         ↓
//	    [snapshot] package (decode + validate)
//	         ↓
//	    [flow] package (indexed subgraph queries)
//	         ↓
//	    [layout] package (spine, branches, placement, routing)
//	         ↓
//	    plan.json / DOT / SVG output
//
// # Quick Start
//
// Compute a layout plan for a snapshot:
//
//	import (
//	    "github.com/flowgrid/flowgrid/pkg/canvas"
//	    "github.com/flowgrid/flowgrid/pkg/layout"
//	    "github.com/flowgrid/flowgrid/pkg/snapshot"
//	)
//
//	// 1. Load and validate the snapshot
//	snap, _ := snapshot.ReadSnapshotFile("snapshot.json")
//	sg, _ := snapshot.ToSubgraph(snap)
//
//	// 2. Compute the placement
//	res, _ := layout.Suggest(sg, layout.Options{
//	    Origin: canvas.Point{X: 400, Y: 400},
//	})
//
//	// 3. Write the plan back out
//	snapshot.WritePlanFile(snapshot.FromPlan(res.Plan), "plan.json")
//
// # Main Packages
//
// ## Core Domain Logic
//
// [canvas] - The geometry catalogue: component bounding boxes (task, port,
// funnel, container), the 8-unit grid, snapping, and the positioning
// primitives (Below, Above, LeftOf, RightOf, Fork, GridCell) every placement
// is built from.
//
// [flow] - Immutable, ID-indexed view of a subgraph with deterministic
// enumeration, degree queries, entry/terminal detection, and bounds. All
// layout analyses read through this package; none of them mutate it.
//
// [layout] - The layout engine proper: longest-path spine discovery with
// back-edge exclusion, bounded branch discovery, the placement planner,
// fan-in bend routing, bend clearing, rigid transposition, and container
// grid packing. Results are reported as plans, never as mutations.
//
// ## Serialization
//
// [snapshot] - Wire types for snapshots and plans (JSON and BSON), file
// read/write helpers, and the bridge to [flow] subgraphs.
//
// ## Infrastructure
//
// [pipeline] - Complete layout pipeline (validate → layout → render) used by
// the CLI and the HTTP service. Ensures consistent behavior across all
// entry points, caches computed plans, and archives runs.
//
// [plancache] - Content-hash keyed plan cache with file, Redis, and null
// backends.
//
// [planstore] - Append-only archive of computed plans with memory and
// MongoDB backends.
//
// [render] - DOT export with pinned positions and in-process SVG rendering
// for visual checks of a plan.
//
// [observability] - Hook registry with no-op defaults for layout, cache,
// and store instrumentation.
//
// [errors] - Structured errors with stable codes and user-facing messages.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example        # Examples only
//
// [canvas]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/canvas
// [flow]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/flow
// [layout]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/layout
// [snapshot]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/snapshot
// [pipeline]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/pipeline
// [plancache]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/plancache
// [planstore]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/planstore
// [render]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/render
// [observability]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/flowgrid/flowgrid/pkg/buildinfo
package pkg
